package models

// Merchant is provisioned out-of-band; this service only reads it.
type Merchant struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Token string `json:"-" yaml:"token"`
}
