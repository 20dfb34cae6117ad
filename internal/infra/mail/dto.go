package mail

type DealMovedEmailData struct {
	DealTitle  string
	StageTitle string
	Status     string
	MovedAt    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string

	dialer dialer
}
