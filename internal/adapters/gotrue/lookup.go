package gotrue

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/ports"
)

// Compile-time conformance for both strategies.
var (
	_ ports.DirectoryLookup = (*FilterLookup)(nil)
	_ ports.DirectoryLookup = (*ScanLookup)(nil)
)

// FilterLookup finds identities with the provider-side filtered user
// query. This is the preferred strategy; use ScanLookup only against
// providers that do not support filtering.
type FilterLookup struct {
	Client *Client
}

// FindByEmail asks the provider for users matching the email and returns
// the exact match, if any.
func (l *FilterLookup) FindByEmail(ctx context.Context, email string) (domainauth.Identity, bool, error) {
	q := url.Values{
		"filter":   []string{email},
		"page":     []string{"1"},
		"per_page": []string{"10"},
	}
	users, err := l.Client.listUsers(ctx, q)
	if err != nil {
		return domainauth.Identity{}, false, err
	}
	if u, ok := matchEmail(users, email); ok {
		return u.identity(), true, nil
	}
	return domainauth.Identity{}, false, nil
}

// ScanLookup pages through the provider's full user listing until it
// finds the email or exhausts MaxPages. Unlike a single-page scan this
// finds matches beyond the first page; the cap bounds worst-case cost
// for very large user bases.
type ScanLookup struct {
	Client   *Client
	PerPage  int
	MaxPages int
}

// FindByEmail scans listing pages for an exact email match.
func (l *ScanLookup) FindByEmail(ctx context.Context, email string) (domainauth.Identity, bool, error) {
	perPage := l.PerPage
	if perPage <= 0 {
		perPage = 200
	}
	maxPages := l.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}

	for page := 1; page <= maxPages; page++ {
		q := url.Values{
			"page":     []string{strconv.Itoa(page)},
			"per_page": []string{strconv.Itoa(perPage)},
		}
		users, err := l.Client.listUsers(ctx, q)
		if err != nil {
			return domainauth.Identity{}, false, err
		}
		if u, ok := matchEmail(users, email); ok {
			return u.identity(), true, nil
		}
		if len(users) < perPage {
			// Short page means the listing is exhausted.
			return domainauth.Identity{}, false, nil
		}
	}
	return domainauth.Identity{}, false, nil
}

func matchEmail(users []user, email string) (user, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return user{}, false
}
