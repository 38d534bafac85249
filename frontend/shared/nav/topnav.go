package nav

import "estateadmin/models"

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Links    []Link
}

// Link is one top navigation entry.
type Link struct {
	Label  string
	Href   string
	Active bool
}

func BuildTopNavData(session models.Session, activePath string) TopNavData {
	links := []Link{
		{Label: "Projects", Href: "/project"},
	}
	for i := range links {
		links[i].Active = links[i].Href == activePath
	}
	return TopNavData{Username: session.User.Username, Links: links}
}
