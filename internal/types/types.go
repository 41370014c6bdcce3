// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
//
// Struct tags serve four purposes:
//
//  1. json:"..."      — exact field names on the wire and in validation errors.
//  2. bson:"..."      — field names inside the document database.
//  3. required:"true" — the field must be sent and must not be null.
//  4. validate:"..."  — value rules checked by the go-playground/validator package.
//
// Optional fields are pointers: nil means the client did not send them.
package types

// Record is implemented by every model that is stored in a collection.
type Record interface {
	Collection() string
}

// Collection names, one per record type: the lower-cased type name.
const (
	CollectionUser                   = "user"
	CollectionProduct                = "product"
	CollectionExhibit                = "exhibit"
	CollectionEvent                  = "event"
	CollectionNewsletterSubscription = "newslettersubscription"
	CollectionContactMessage         = "contactmessage"
)

// User is an application account.
type User struct {
	Name     string `json:"name"      bson:"name"      required:"true"`
	Email    string `json:"email"     bson:"email"     required:"true"`
	Address  string `json:"address"   bson:"address"   required:"true"`
	Age      *int   `json:"age"       bson:"age"       validate:"omitempty,min=0,max=120"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

// Product is an item sold in the museum shop.
type Product struct {
	Title       string   `json:"title"       bson:"title"       required:"true"`
	Description *string  `json:"description" bson:"description"`
	Price       *float64 `json:"price"       bson:"price"       required:"true" validate:"omitempty,gte=0"`
	Category    string   `json:"category"    bson:"category"    required:"true"`
	InStock     bool     `json:"in_stock"    bson:"in_stock"`
}

// Exhibit is an exhibit on display at the museum.
type Exhibit struct {
	Title    string   `json:"title"     bson:"title"     required:"true"`
	Summary  string   `json:"summary"   bson:"summary"   required:"true"`
	ImageURL *string  `json:"image_url" bson:"image_url"`
	Tags     []string `json:"tags"      bson:"tags"`
	Location *string  `json:"location"  bson:"location"` // gallery or floor
	Featured bool     `json:"featured"  bson:"featured"` // shown on the homepage
}

// Event is a talk, workshop or other scheduled event.
type Event struct {
	Name           string  `json:"name"            bson:"name"            required:"true"`
	Date           string  `json:"date"            bson:"date"            required:"true" validate:"datetime=2006-01-02"`
	Time           *string `json:"time"            bson:"time"`
	Description    string  `json:"description"     bson:"description"     required:"true"`
	ImageURL       *string `json:"image_url"       bson:"image_url"`
	TicketRequired bool    `json:"ticket_required" bson:"ticket_required"`
}

// NewsletterSubscription is a newsletter sign-up.
type NewsletterSubscription struct {
	Email   string  `json:"email"   bson:"email"   required:"true" validate:"email"`
	Name    *string `json:"name"    bson:"name"`
	Consent bool    `json:"consent" bson:"consent"`
}

// ContactMessage is a message sent through the visitor contact form.
type ContactMessage struct {
	Name    string `json:"name"    bson:"name"    required:"true"`
	Email   string `json:"email"   bson:"email"   required:"true" validate:"email"`
	Subject string `json:"subject" bson:"subject" required:"true"`
	Message string `json:"message" bson:"message" required:"true"`
}

func (User) Collection() string                   { return CollectionUser }
func (Product) Collection() string                { return CollectionProduct }
func (Exhibit) Collection() string                { return CollectionExhibit }
func (Event) Collection() string                  { return CollectionEvent }
func (NewsletterSubscription) Collection() string { return CollectionNewsletterSubscription }
func (ContactMessage) Collection() string         { return CollectionContactMessage }
