package dashboard

import "business-console/internal/common/gateway"

// Totals are the counts shown on the landing page.
type Totals struct {
	ActiveBusinesses   int
	InactiveBusinesses int
	Admins             int
	Users              int
	Applicants         int
}

// counter is one total and the collection it is read from.
type counter struct {
	label   string
	service gateway.Service
	path    string
	href    string
	target  func(*Totals) *int
}

var counters = []counter{
	{"Active businesses", gateway.Primary, "/businesses?active=yes&limit=1", "/businesses?active=yes", func(t *Totals) *int { return &t.ActiveBusinesses }},
	{"Inactive businesses", gateway.Primary, "/businesses?active=no&limit=1", "/businesses?active=no", func(t *Totals) *int { return &t.InactiveBusinesses }},
	{"Admins", gateway.Primary, "/business-admins?limit=1", "/business-admins", func(t *Totals) *int { return &t.Admins }},
	{"Users", gateway.Primary, "/business-users?limit=1", "/business-users", func(t *Totals) *int { return &t.Users }},
	{"Applicants", gateway.Applicant, "/applicants?limit=1", "/applicants", func(t *Totals) *int { return &t.Applicants }},
}
