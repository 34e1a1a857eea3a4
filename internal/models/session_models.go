package models

// SessionState is the resolved capability set of an authenticated user:
// active roles, the permissions those roles grant, and the modules those
// permissions open. It is built once per request (or on demand) and passed
// explicitly; there is no ambient global session.
//
// A user with zero active roles gets a valid SessionState whose predicates
// all answer false.
type SessionState struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Roles    []Role   `json:"roles"`
	Perms    []Permission `json:"permissions"`
	Modules  []Module `json:"modules"`

	roleNames   map[string]struct{}
	permCodes   map[string]struct{}
	modulePaths map[string]struct{}
}

// NewSessionState builds a SessionState with its membership indexes.
func NewSessionState(userID int64, username string, roles []Role, perms []Permission, modules []Module) *SessionState {
	s := &SessionState{
		UserID:      userID,
		Username:    username,
		Roles:       roles,
		Perms:       perms,
		Modules:     modules,
		roleNames:   make(map[string]struct{}, len(roles)),
		permCodes:   make(map[string]struct{}, len(perms)),
		modulePaths: make(map[string]struct{}, len(modules)),
	}
	for _, r := range roles {
		s.roleNames[r.Name] = struct{}{}
	}
	for _, p := range perms {
		s.permCodes[p.Code] = struct{}{}
	}
	for _, m := range modules {
		s.modulePaths[m.Path] = struct{}{}
	}
	return s
}

// HasPermission reports whether the session grants the permission code.
func (s *SessionState) HasPermission(code string) bool {
	_, ok := s.permCodes[code]
	return ok
}

// HasRole reports whether the session carries the named role.
func (s *SessionState) HasRole(name string) bool {
	_, ok := s.roleNames[name]
	return ok
}

// CanAccessModule reports whether the session can open the module path.
func (s *SessionState) CanAccessModule(path string) bool {
	_, ok := s.modulePaths[path]
	return ok
}
