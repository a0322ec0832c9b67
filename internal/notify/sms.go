// Package notify defines the SMS collaborator boundary. The storefront
// only ever fires and forgets; no delivery response is consumed.
package notify

import "krumb/internal/logging"

// Notifier accepts (phone, message) and sends it somewhere. Or nowhere.
type Notifier interface {
	Send(phone, message string)
}

// LogNotifier is the stand-in delivery channel: the message lands in the
// sms log category and goes no further. A real gateway (Twilio was the
// source design's placeholder) would implement Notifier instead.
type LogNotifier struct{}

// Send logs the would-be SMS.
func (LogNotifier) Send(phone, message string) {
	logging.SMS("to=%s message=%q", phone, message)
}
