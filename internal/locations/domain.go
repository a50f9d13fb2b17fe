package locations

// Province is a top-level administrative region.
type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// City is a city/regency within a province.
type City struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
}
