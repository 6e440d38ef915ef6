package portfolio

// Context is the profile document every generated answer is grounded on:
// identity, skills, projects, work history and credentials of the portfolio
// owner. Field order is stable so its JSON rendering is deterministic.
type Context struct {
	Name           string              `json:"name"`
	Nickname       string              `json:"nickname,omitempty"`
	Title          string              `json:"title"`
	Location       string              `json:"location"`
	Email          string              `json:"email"`
	Socials        Socials             `json:"socials"`
	About          string              `json:"about"`
	Skills         map[string][]string `json:"skills"` // category → skills
	Projects       []Project           `json:"projects"`
	Experience     []Experience        `json:"experience"`
	Certifications []string            `json:"certifications"`
	Achievements   []string            `json:"achievements"`
	Languages      []string            `json:"languages"`
	Resume         string              `json:"resume,omitempty"`
}

// Socials holds public profile links.
type Socials struct {
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

type Experience struct {
	Company    string `json:"company"`
	Role       string `json:"role"`
	Period     string `json:"period"`
	Highlights string `json:"highlights"`
}

// DisplayName is the short name used when the assistant refers to the owner.
func (c Context) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Name
}
