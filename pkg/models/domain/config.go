package domain

import "fmt"

// Institution identifies the organizational unit printed on rendered reports.
type Institution struct {
	Profile string
	Name    string
	Sector  string
	Logo    string
}

func (i Institution) String() string {
	if i.Sector == "" {
		return i.Name
	}
	return fmt.Sprintf("%s - %s", i.Name, i.Sector)
}
