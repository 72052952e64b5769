package petfinder

// Wire types for the Petfinder v2 animals endpoint.

type animalsResponse struct {
	Animals    []animal   `json:"animals"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type animal struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Age                 string  `json:"age"`
	Gender              string  `json:"gender"`
	Size                string  `json:"size"`
	Breeds              breeds  `json:"breeds"`
	Description         string  `json:"description"`
	PublishedAt         string  `json:"published_at"`
	Photos              []photo `json:"photos"`
	PrimaryPhotoCropped *photo  `json:"primary_photo_cropped"`
	Videos              []video `json:"videos"`
	URL                 string  `json:"url"`
	Contact             contact `json:"contact"`
}

type breeds struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Mixed     bool   `json:"mixed"`
	Unknown   bool   `json:"unknown"`
}

type photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

// video carries either a direct link or embed markup, depending on the
// upstream source of the clip.
type video struct {
	URL   string `json:"url"`
	Embed string `json:"embed"`
}

type contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}
