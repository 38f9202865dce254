package models

import "net/http"

// Link relations used by the hypermedia endpoints.
const (
	RelSelf = "self"
	RelAll  = "all"
)

// Link points at a related resource together with the verb used to fetch it.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

// NewGetLink builds a GET link for the given relation.
func NewGetLink(rel, href string) Link {
	return Link{Rel: rel, Href: href, Method: http.MethodGet}
}

// LinkedCourse is a course decorated with navigation links.
type LinkedCourse struct {
	Course
	Links []Link `json:"links"`
}

// FindLink returns the first link with the given relation.
func (lc LinkedCourse) FindLink(rel string) (Link, bool) {
	for _, link := range lc.Links {
		if link.Rel == rel {
			return link, true
		}
	}
	return Link{}, false
}
