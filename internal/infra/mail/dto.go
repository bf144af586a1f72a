package mail

import (
	"time"

	"gopkg.in/gomail.v2"
)

type DispatchFailedData struct {
	RunID     string
	SheetID   string
	SheetName string
	UserID    string
	Action    string
	Rows      int
	Reason    string
	At        time.Time
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	// send delivers a built message; DialAndSend on a gomail dialer by default.
	send func(m *gomail.Message) error
}
