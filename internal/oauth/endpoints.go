package oauth

const (
	authorizeURI = "https://identity.intuto.com/connect/authorize"
	tokenURI     = "https://identity.intuto.com/connect/token"
	apiBaseURI   = "https://api.intuto.com/v2/"

	sandboxAuthorizeURI = "https://identity-sandbox.intuto.com/connect/authorize"
	sandboxTokenURI     = "https://identity-sandbox.intuto.com/connect/token"
	sandboxAPIBaseURI   = "https://api-sandbox.intuto.com/v2/"
)

// Endpoints holds the Intuto endpoint set in use. It is resolved once from
// the sandbox flag at construction time and never switched per call.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	APIBase      string
}

func EndpointsFor(sandbox bool) Endpoints {
	if sandbox {
		return Endpoints{
			AuthorizeURL: sandboxAuthorizeURI,
			TokenURL:     sandboxTokenURI,
			APIBase:      sandboxAPIBaseURI,
		}
	}
	return Endpoints{
		AuthorizeURL: authorizeURI,
		TokenURL:     tokenURI,
		APIBase:      apiBaseURI,
	}
}
