package types

// Schema ties a record type to its storage collection and its parser.
type Schema struct {
	Name       string
	Collection string
	Parse      func(raw map[string]any) (Record, error)
}

// Schemas is the static record → collection table. Collection names are the
// lower-cased type name with no pluralisation.
var Schemas = []Schema{
	{Name: "User", Collection: CollectionUser, Parse: wrap(ParseUser)},
	{Name: "Product", Collection: CollectionProduct, Parse: wrap(ParseProduct)},
	{Name: "Exhibit", Collection: CollectionExhibit, Parse: wrap(ParseExhibit)},
	{Name: "Event", Collection: CollectionEvent, Parse: wrap(ParseEvent)},
	{Name: "NewsletterSubscription", Collection: CollectionNewsletterSubscription, Parse: wrap(ParseNewsletterSubscription)},
	{Name: "ContactMessage", Collection: CollectionContactMessage, Parse: wrap(ParseContactMessage)},
}

// Lookup returns the schema stored in collection.
func Lookup(collection string) (Schema, bool) {
	for _, s := range Schemas {
		if s.Collection == collection {
			return s, true
		}
	}
	return Schema{}, false
}

func wrap[T Record](parse func(map[string]any) (T, error)) func(map[string]any) (Record, error) {
	return func(raw map[string]any) (Record, error) {
		rec, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}
