package mailbox

// Record is one entry of the mailbox file as written on disk
type Record struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Favorite bool   `yaml:"favorite,omitempty"`
}

// wrapped is the alternative layout with the list under an "emails" key
type wrapped struct {
	Emails []Record `yaml:"emails"`
}
