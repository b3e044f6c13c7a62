package entity

// Query is a single search request: the text typed into the map search box
// and the category tag attached to every listing it produces.
type Query struct {
	Text     string `mapstructure:"text" json:"text"`
	Category string `mapstructure:"category" json:"category"`
}

// Coordinates is a geographic point. The source attribute carries "lon,lat".
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Listing is one business record extracted from a result item.
// Name and Address are always set; the remaining string fields are empty when absent.
type Listing struct {
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Rating       string       `json:"rating,omitempty"`
	AvgPrice     string       `json:"avg_price,omitempty"`
	ReviewsCount string       `json:"reviews_count,omitempty"`
	Link         string       `json:"link,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// DedupKey identifies a venue within one result set.
type DedupKey struct {
	Name    string
	Address string
}

func (l Listing) Key() DedupKey {
	return DedupKey{Name: l.Name, Address: l.Address}
}
