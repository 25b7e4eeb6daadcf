// Package model defines the canonical vault records produced by the adapter
// and consumed by the export engine.
package model

import "fmt"

// CipherType identifies the kind of vault item. Values match the export wire codes.
type CipherType int

const (
	// CipherTypeLogin is a username/password credential with URIs.
	CipherTypeLogin CipherType = 1
	// CipherTypeSecureNote is a free-text note.
	CipherTypeSecureNote CipherType = 2
	// CipherTypeCard is a payment card.
	CipherTypeCard CipherType = 3
	// CipherTypeIdentity is personal identity information.
	CipherTypeIdentity CipherType = 4
)

// String returns the string representation of the CipherType.
func (t CipherType) String() string {
	switch t {
	case CipherTypeLogin:
		return "login"
	case CipherTypeSecureNote:
		return "secure-note"
	case CipherTypeCard:
		return "card"
	case CipherTypeIdentity:
		return "identity"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// RepromptType controls whether the master password is asked again before
// revealing an item.
type RepromptType int

const (
	// RepromptNone never reprompts.
	RepromptNone RepromptType = 0
	// RepromptPassword requires the master password.
	RepromptPassword RepromptType = 1
)

// String returns the string representation of the RepromptType.
func (r RepromptType) String() string {
	switch r {
	case RepromptNone:
		return "none"
	case RepromptPassword:
		return "password"
	default:
		return fmt.Sprintf("unknown(%d)", r)
	}
}

// URIMatchType is the match-strategy override of a login URI.
type URIMatchType int

const (
	// URIMatchDomain matches on the base domain.
	URIMatchDomain URIMatchType = iota
	// URIMatchHost matches on the host name and port.
	URIMatchHost
	// URIMatchStartsWith matches when the page URL begins with the URI.
	URIMatchStartsWith
	// URIMatchExact matches only the exact URI.
	URIMatchExact
	// URIMatchRegularExpression treats the URI as a regular expression.
	URIMatchRegularExpression
	// URIMatchNever disables matching for the URI.
	URIMatchNever
)

// String returns the string representation of the URIMatchType.
func (m URIMatchType) String() string {
	switch m {
	case URIMatchDomain:
		return "domain"
	case URIMatchHost:
		return "host"
	case URIMatchStartsWith:
		return "starts-with"
	case URIMatchExact:
		return "exact"
	case URIMatchRegularExpression:
		return "regex"
	case URIMatchNever:
		return "never"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// FieldType is the kind of a custom field.
type FieldType int

const (
	// FieldTypeText is a plain text value.
	FieldTypeText FieldType = iota
	// FieldTypeHidden is a value masked in the UI.
	FieldTypeHidden
	// FieldTypeBoolean is a checkbox value.
	FieldTypeBoolean
	// FieldTypeLinked points at another field of the item.
	FieldTypeLinked
)

// String returns the string representation of the FieldType.
func (f FieldType) String() string {
	switch f {
	case FieldTypeText:
		return "text"
	case FieldTypeHidden:
		return "hidden"
	case FieldTypeBoolean:
		return "boolean"
	case FieldTypeLinked:
		return "linked"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}
