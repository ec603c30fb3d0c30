package domain

// BootstrapData seeds the first superadmin on an empty install.
type BootstrapData struct {
	Email       string
	Password    string
	DisplayName string
}
