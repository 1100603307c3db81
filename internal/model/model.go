package model

// Status is the lifecycle state of a project. Only active projects can
// receive new time logs.
type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaused
}

// User is the singleton profile stored in user.json.
type User struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Project is one entry of the project catalog.
type Project struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// Catalog is the ordered project list stored in projects.json. It is
// replaced wholesale on refresh; individual projects are never edited
// in place.
type Catalog struct {
	Projects []Project `json:"projects"`
}

// Find returns the project with the given uuid, or nil.
func (c Catalog) Find(uuid string) *Project {
	for i := range c.Projects {
		if c.Projects[i].UUID == uuid {
			return &c.Projects[i]
		}
	}
	return nil
}

// Active returns the projects selectable for new time logs.
func (c Catalog) Active() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out
}

// Config is the application configuration stored in config.json.
// LastUpdated is stamped on every mutation.
type Config struct {
	APIURL           string `json:"api_url"`
	APIToken         string `json:"api_token"`
	MockMode         bool   `json:"mock_mode"`
	ShowCurlCommands bool   `json:"show_curl_commands"`
	LastUpdated      string `json:"last_updated"`
}

// TimeLog is a single logged unit of work. It only exists on the wire:
// the server assigns the ID, and entries are immutable once created.
// ProjectName is a snapshot of the project name at logging time, so a
// later catalog refresh cannot rewrite history.
type TimeLog struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Hours       int    `json:"hours"`
	Minutes     int    `json:"minutes"`
	ProjectUUID string `json:"project_uuid"`
	ProjectName string `json:"project_name"`
	Note        string `json:"note,omitempty"`
	UserUUID    string `json:"user_uuid"`
}
