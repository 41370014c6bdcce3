package types

import "github.com/aanand-mishra/museum-api/internal/validation"

// ParseUser builds a User from raw input. Omitted is_active defaults to true.
func ParseUser(raw map[string]any) (User, error) {
	u := User{IsActive: true}
	if err := validation.Decode("User", raw, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// ParseProduct builds a Product from raw input. Omitted in_stock defaults to true.
func ParseProduct(raw map[string]any) (Product, error) {
	p := Product{InStock: true}
	if err := validation.Decode("Product", raw, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ParseExhibit builds an Exhibit from raw input. Omitted tags become an
// empty list and featured defaults to false.
func ParseExhibit(raw map[string]any) (Exhibit, error) {
	var e Exhibit
	if err := validation.Decode("Exhibit", raw, &e); err != nil {
		return Exhibit{}, err
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

// ParseEvent builds an Event from raw input. Omitted ticket_required defaults to true.
func ParseEvent(raw map[string]any) (Event, error) {
	e := Event{TicketRequired: true}
	if err := validation.Decode("Event", raw, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// ParseNewsletterSubscription builds a NewsletterSubscription from raw
// input. Omitted consent defaults to true.
func ParseNewsletterSubscription(raw map[string]any) (NewsletterSubscription, error) {
	s := NewsletterSubscription{Consent: true}
	if err := validation.Decode("NewsletterSubscription", raw, &s); err != nil {
		return NewsletterSubscription{}, err
	}
	return s, nil
}

func ParseContactMessage(raw map[string]any) (ContactMessage, error) {
	var m ContactMessage
	if err := validation.Decode("ContactMessage", raw, &m); err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}
