package users

import "context"

// Store is the credential table abstraction. Lookups have exactly-one
// semantics: zero matches and multiple matches both fail, so an ambiguous
// lookup is never silently resolved to the first row.
type Store interface {
	// FindBy returns the single user matching every criteria column.
	// Criteria keys must be a non-empty subset of the known column names
	// (ErrInvalidCriteria otherwise); ErrNoSuchUser when not exactly one
	// row matches.
	FindBy(ctx context.Context, criteria map[string]string) (*User, error)

	// Add inserts a new user with the given email and password hash.
	// ErrDuplicateEmail when the email is already registered.
	Add(ctx context.Context, email, hashedPassword string) (*User, error)

	// Update assigns the given columns on the user identified by userID.
	// ErrInvalidAttribute for unknown column names, ErrNoSuchUser when the
	// id does not resolve.
	Update(ctx context.Context, userID string, attrs map[string]string) error
}

// ValidateCriteria checks that criteria is non-empty and every key is a
// known column name.
func ValidateCriteria(criteria map[string]string) error {
	if len(criteria) == 0 {
		return ErrInvalidCriteria
	}
	for name := range criteria {
		if !ValidColumn(name) {
			return ErrInvalidCriteria
		}
	}
	return nil
}

// ValidateAttributes checks that every attribute key is a known column name.
func ValidateAttributes(attrs map[string]string) error {
	for name := range attrs {
		if !ValidColumn(name) {
			return ErrInvalidAttribute
		}
	}
	return nil
}
