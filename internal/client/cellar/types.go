package cellar

// Client-side views of the API payloads. Field names follow the wire format;
// optional fields are pointers so a partial update can distinguish "unset"
// from zero.

type Colour struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Region struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type WineDomain struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Appellation struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type GrapeVariety struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Vintage struct {
	ID   uint `json:"id"`
	Year int  `json:"year"`
}

type Bottle struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	WineDomain     *WineDomain    `json:"wine_domain,omitempty"`
	Colour         *Colour        `json:"colour,omitempty"`
	Region         *Region        `json:"region,omitempty"`
	GrapeVarieties []GrapeVariety `json:"grape_varieties,omitempty"`
}

type Comment struct {
	ID           uint   `json:"id"`
	CellarItemID uint   `json:"cellar_item_id"`
	Date         string `json:"date"`
	Content      string `json:"content"`
}

type Item struct {
	ID                  uint         `json:"id"`
	UserID              uint         `json:"user_id"`
	Stock               int          `json:"stock"`
	Rating              *float64     `json:"rating"`
	Price               *float64     `json:"price"`
	Shop                *string      `json:"shop"`
	OfferedBy           *string      `json:"offered_by"`
	DrinkingWindowStart *int         `json:"drinking_window_start"`
	DrinkingWindowEnd   *int         `json:"drinking_window_end"`
	Bottle              *Bottle      `json:"bottle,omitempty"`
	Vintage             *Vintage     `json:"vintage,omitempty"`
	Appellation         *Appellation `json:"appellation,omitempty"`
	Comments            []Comment    `json:"comments,omitempty"`
	CreatedAt           string       `json:"created_at"`
}

type ColourStock struct {
	Colour string `json:"colour"`
	Stock  int    `json:"stock"`
}

// BottleInput is the nested bottle block of a create request.
type BottleInput struct {
	Name            string  `json:"name"`
	DomainName      *string `json:"domain_name,omitempty"`
	ColourID        uint    `json:"colour_id"`
	RegionID        uint    `json:"region_id"`
	GrapeVarietyIDs []uint  `json:"grape_variety_ids,omitempty"`
}

type VintageInput struct {
	Year int `json:"year"`
}

type CreateItemInput struct {
	Bottle              BottleInput  `json:"bottle"`
	Vintage             VintageInput `json:"vintage"`
	AppellationName     *string      `json:"appellation_name,omitempty"`
	Stock               int          `json:"stock"`
	Rating              *float64     `json:"rating,omitempty"`
	Price               *float64     `json:"price,omitempty"`
	Shop                *string      `json:"shop,omitempty"`
	OfferedBy           *string      `json:"offered_by,omitempty"`
	DrinkingWindowStart *int         `json:"drinking_window_start,omitempty"`
	DrinkingWindowEnd   *int         `json:"drinking_window_end,omitempty"`
}

type UpdateItemInput struct {
	Stock               *int     `json:"stock,omitempty"`
	Rating              *float64 `json:"rating,omitempty"`
	Price               *float64 `json:"price,omitempty"`
	Shop                *string  `json:"shop,omitempty"`
	OfferedBy           *string  `json:"offered_by,omitempty"`
	DrinkingWindowStart *int     `json:"drinking_window_start,omitempty"`
	DrinkingWindowEnd   *int     `json:"drinking_window_end,omitempty"`
}

type CommentInput struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}
