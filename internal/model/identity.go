package model

// FederatedIdentity is what an identity provider asserted about the user
// at the end of a federated login. Email may be empty when the provider
// did not disclose one.
type FederatedIdentity struct {
	Provider string
	Email    string
	Nickname string
}
