package entity

// Contacts mirrors a row of the contacts output.
type Contacts struct {
	Link     string `json:"link"`
	Phone    string `json:"phone"`
	Telegram string `json:"telegram"`
	VK       string `json:"vk"`
}

var ContactsColumns = []string{"link", "phone", "telegram", "vk"}

func (c Contacts) Record() []string {
	return []string{c.Link, c.Phone, c.Telegram, c.VK}
}

// Reviews holds review excerpts of one venue, joined by ReviewSeparator.
type Reviews struct {
	Link     string `json:"link"`
	Negative string `json:"negative"`
	Positive string `json:"positive"`
}

const ReviewSeparator = " -_- "

var ReviewsColumns = []string{"link", "negative", "positive"}

func (r Reviews) Record() []string {
	return []string{r.Link, r.Negative, r.Positive}
}
