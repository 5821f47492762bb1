package profiles

// Farmer is a row in the farmers table.
type Farmer struct {
	FarmerID     *int64 `json:"farmer_id,omitempty"`
	UserID       string `json:"user_id"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`
	FarmSize     string `json:"farm_size,omitempty"`
	BirdCount    *int64 `json:"bird_count,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
}

// Complete reports whether the row has the minimum required fields: a full
// name and a farm location.
func (f *Farmer) Complete() bool {
	return f != nil && f.FullName != "" && f.FarmLocation != ""
}

// Vet is a row in the vet table.
type Vet struct {
	VetID             *int64   `json:"vet_id,omitempty"`
	UserID            string   `json:"user_id"`
	Email             string   `json:"email,omitempty"`
	FullName          string   `json:"full_name,omitempty"`
	Specialization    string   `json:"specialization,omitempty"`
	Location          string   `json:"location,omitempty"`
	PhoneNumber       string   `json:"phone_number,omitempty"`
	YearsOfExperience *int64   `json:"years_of_experience,omitempty"`
	LicenseNumber     string   `json:"license_number,omitempty"`
	Available         *bool    `json:"is_available,omitempty"`
	ConsultationFee   *float64 `json:"consultation_fee,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
}

// Complete reports whether the row has the minimum required fields: a full
// name and a specialization.
func (v *Vet) Complete() bool {
	return v != nil && v.FullName != "" && v.Specialization != ""
}
