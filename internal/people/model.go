package people

// Contact is a single connection of the authenticated user.
//
// Any of the slices may be nil or empty; both mean the field is absent.
type Contact struct {
	ResourceName   string
	ETag           string
	Names          []Name
	PhoneNumbers   []PhoneNumber
	EmailAddresses []EmailAddress
}

// Name holds a display name of a contact
type Name struct {
	DisplayName string
}

// PhoneNumber holds a phone number value and its optional type (home, mobile, ...)
type PhoneNumber struct {
	Value string
	Type  string
}

// EmailAddress holds an email address value
type EmailAddress struct {
	Value string
}

// HasPhoneNumbers reports whether the contact carries at least one phone number
func (c *Contact) HasPhoneNumbers() bool {
	return c != nil && len(c.PhoneNumbers) > 0
}

// DisplayNames returns the display names in order
func (c *Contact) DisplayNames() []string {
	names := make([]string, 0, len(c.Names))
	for _, n := range c.Names {
		names = append(names, n.DisplayName)
	}
	return names
}

// PhoneValues returns the raw phone number values in order
func (c *Contact) PhoneValues() []string {
	values := make([]string, 0, len(c.PhoneNumbers))
	for _, p := range c.PhoneNumbers {
		values = append(values, p.Value)
	}
	return values
}

// EmailValues returns the email address values in order
func (c *Contact) EmailValues() []string {
	values := make([]string, 0, len(c.EmailAddresses))
	for _, e := range c.EmailAddresses {
		values = append(values, e.Value)
	}
	return values
}

// Clone returns a deep copy of the contact
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := &Contact{
		ResourceName: c.ResourceName,
		ETag:         c.ETag,
	}
	if c.Names != nil {
		out.Names = append([]Name{}, c.Names...)
	}
	if c.PhoneNumbers != nil {
		out.PhoneNumbers = append([]PhoneNumber{}, c.PhoneNumbers...)
	}
	if c.EmailAddresses != nil {
		out.EmailAddresses = append([]EmailAddress{}, c.EmailAddresses...)
	}
	return out
}
