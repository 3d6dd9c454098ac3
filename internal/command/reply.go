package command

const ColorDanger = "danger"

// Reply is what the router hands back to the chat adapter: one primary
// message plus zero or more secondary notes.
type Reply struct {
	Text        string
	Markdown    bool
	InChannel   bool
	Attachments []Attachment
}

type Attachment struct {
	Fallback string
	Text     string
	Color    string
}
