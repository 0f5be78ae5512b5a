package fixer

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgettica/contact-fixer/internal/people"
)

func TestFixDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"contact", "contact"},
		{"Roy Trenneman", "Roy Trenneman"},
		{"Hello World!", "Hello World!"},
		{"Dr. Who", "Dr. Who"},
		{"", ""},
		{"שלום", "םולש"},
		{"דני כהן", "ןהכ ינד"},
		{"Ahmed أحمد", "دمحأ demhA"},
		{"Zoë", "ëoZ"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FixDisplayName(tt.in))
		})
	}
}

func TestIsNonRoman(t *testing.T) {
	assert.False(t, IsNonRoman("plain_name 42"))
	assert.True(t, IsNonRoman("Jean-Luc"))
	assert.True(t, IsNonRoman("日本"))
}

func TestRenderContactFullRecord(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{})
	c := &people.Contact{
		Names:          []people.Name{{DisplayName: "Roy Trenneman"}, {DisplayName: "רוי"}},
		PhoneNumbers:   []people.PhoneNumber{{Value: "0118-999"}, {Value: "976-shoe"}},
		EmailAddresses: []people.EmailAddress{{Value: "roy@example.com"}},
	}

	p.RenderContact(c)

	want := `["Roy Trenneman", "יור"]
- ["0118-999", "976-shoe"]
- ["roy@example.com"]

`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("RenderContact mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderContactMissingFields(t *testing.T) {
	for _, c := range []*people.Contact{
		{},
		{Names: []people.Name{}, PhoneNumbers: []people.PhoneNumber{}, EmailAddresses: []people.EmailAddress{}},
	} {
		p, out := newTestProcessor(t, &fakeDirectory{})
		p.RenderContact(c)

		want := NoNamesMessage + "\n" + NoNumbersMessage + "\n" + NoEmailsMessage + "\n\n"
		assert.Equal(t, want, out.String())
	}
}

func TestRenderContactHighlightsMatches(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{}, WithPattern("976"))
	c := &people.Contact{
		Names:        []people.Name{{DisplayName: "Shoe Store"}},
		PhoneNumbers: []people.PhoneNumber{{Value: "976-shoe 976"}, {Value: "555-0101"}},
	}

	p.RenderContact(c)

	assert.Contains(t, out.String(), `- ["<976>-shoe <976>", "555-0101"]`)
	assert.Equal(t, "976-shoe 976", c.PhoneNumbers[0].Value)
}

func TestRenderContactSkipsEmptyMatches(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{}, WithPattern("x*"))
	p.RenderContact(&people.Contact{PhoneNumbers: []people.PhoneNumber{{Value: "1x2"}}})
	assert.Contains(t, out.String(), `- ["1<x>2"]`)
}

func TestRenderContactIsIdempotent(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{}, WithPattern("[0-9]+"))
	c := sampleContacts()[0]
	before := c.Clone()

	p.RenderContact(c)
	first := out.String()
	out.Reset()
	p.RenderContact(c)

	assert.Equal(t, first, out.String())
	if diff := cmp.Diff(before, c); diff != "" {
		t.Errorf("RenderContact mutated contact (-before +after):\n%s", diff)
	}
}

func TestRenderAll(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{})
	p.RenderAll(nil)
	assert.Equal(t, HeaderMessage+"\n"+NoConnectionsMessage+"\n", out.String())

	out.Reset()
	contacts := sampleContacts()[:2]
	p.RenderAll(contacts)

	var expected bytes.Buffer
	single, err := New(&fakeDirectory{}, &expected)
	require.NoError(t, err)
	expected.WriteString(HeaderMessage + "\n")
	for _, c := range contacts {
		single.RenderContact(c)
	}
	assert.Equal(t, expected.String(), out.String())
}

func TestRenderChanges(t *testing.T) {
	p, out := newTestProcessor(t, &fakeDirectory{})
	named := &people.Contact{ResourceName: "people/c2", Names: []people.Name{{DisplayName: "Shoe Store"}}}
	unnamed := &people.Contact{ResourceName: "people/c9"}

	p.RenderChanges([]Change{
		{Contact: named, Old: "976-shoe", New: "800-shoe"},
		{Contact: unnamed, Old: "1", New: "2"},
	})

	assert.Equal(t, "Shoe Store: \"976-shoe\" -> \"800-shoe\"\npeople/c9: \"1\" -> \"2\"\n", out.String())
}
