package domain

// DoctorProfile is the public and editable part of a doctor account.
type DoctorProfile struct {
	ID                string `json:"id,omitempty"`
	FullName          string `json:"fullName"`
	Email             string `json:"email,omitempty"`
	Specialty         string `json:"specialty"`
	Bio               string `json:"bio,omitempty"`
	Phone             string `json:"phone,omitempty"`
	PhotoURL          string `json:"photoUrl,omitempty"`
	YearsOfExperience int    `json:"yearsOfExperience,omitempty"`
}

type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
	Rating  int    `json:"rating,omitempty"`
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type NewsletterSubscription struct {
	Email string `json:"email"`
}
