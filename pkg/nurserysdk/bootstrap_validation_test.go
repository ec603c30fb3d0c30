package nurserysdk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapRequestValidate(t *testing.T) {
	t.Parallel()

	valid := BootstrapRequest{
		Email:       "root@nursery.example",
		Password:    "correct horse battery",
		DisplayName: "Head Gardener",
	}
	require.Nil(t, valid.Validate())

	tests := []struct {
		name  string
		mut   func(*BootstrapRequest)
		field string
	}{
		{"missing email", func(r *BootstrapRequest) { r.Email = "" }, "email"},
		{"display form email", func(r *BootstrapRequest) { r.Email = "Root <root@nursery.example>" }, "email"},
		{"not an email", func(r *BootstrapRequest) { r.Email = "root" }, "email"},
		{"missing password", func(r *BootstrapRequest) { r.Password = "" }, "password"},
		{"short password", func(r *BootstrapRequest) { r.Password = "short" }, "password"},
		{"long password", func(r *BootstrapRequest) { r.Password = strings.Repeat("p", 129) }, "password"},
		{"missing display name", func(r *BootstrapRequest) { r.DisplayName = "   " }, "display_name"},
		{"long display name", func(r *BootstrapRequest) { r.DisplayName = strings.Repeat("n", 65) }, "display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mut(&req)

			errs := req.Validate()
			require.Len(t, errs, 1)
			require.Contains(t, errs, tt.field)
		})
	}
}
