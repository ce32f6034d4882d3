package helpers

// AnonymousUserID identifies requests made without a token.
const AnonymousUserID = "mock-user"

// ViewerClaims is what the auth middleware stores under the "user" key.
type ViewerClaims struct {
	*CustomClaims
	UserID    string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Token     string `json:"-"`
}

func AnonymousViewer() *ViewerClaims {
	return &ViewerClaims{UserID: AnonymousUserID, Name: "You"}
}

func (vc *ViewerClaims) IsAnonymous() bool {
	return vc.UserID == AnonymousUserID
}

func (vc *ViewerClaims) DisplayName() string {
	switch {
	case vc.Name != "":
		return vc.Name
	case vc.Email != "":
		return vc.Email
	default:
		return "You"
	}
}
