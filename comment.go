package ytcomments

// Comment is the output projection of one comment or reply. Reply ids are
// dot-composed with their parent id ("parent.reply"), which is also what the
// Reply flag is derived from. TimeParsed and Paid are omitted from the JSON
// encoding when unset.
type Comment struct {
	ID         string  `json:"cid"`
	Text       string  `json:"text"`
	Time       string  `json:"time"`
	Author     string  `json:"author"`
	ChannelID  string  `json:"channel"`
	Votes      string  `json:"votes"`
	Replies    string  `json:"replies"`
	Photo      string  `json:"photo"`
	Heart      bool    `json:"heart"`
	Reply      bool    `json:"reply"`
	TimeParsed float64 `json:"time_parsed,omitempty"`
	Paid       string  `json:"paid,omitempty"`
}
