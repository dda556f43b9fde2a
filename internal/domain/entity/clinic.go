package entity

// Clinic represents an entry in the herbal-clinic directory.
// The directory is owned by a separate subsystem; this service only reads it
// when matching blog posts to clinics.
type Clinic struct {
	ID       int64
	Name     string
	Address  string
	Province string
	District string
	Phone    string
	Website  string
}
