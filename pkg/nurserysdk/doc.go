/*
Package nurserysdk is the Go client for the nursery marketplace auth service.

# Overview

The service keeps one client runtime per browser. A runtime is identified by
the signed nursery_client cookie the server hands out on the first request,
so an SDKClient carries a cookie jar and behaves like a single browser:

	client := nurserysdk.NewSDKClient("http://localhost:8080")

	// Sign in; the session resolves in the background.
	ident, err := client.Login(ctx, "fern@example.com", "hunter2hunter2")

	// Block until the role is known.
	sess, err := client.Session(ctx, 5*time.Second)

	// Follow the landing redirect for the resolved role.
	res, err := client.Landing(ctx)
	fmt.Println(res.Location) // "/user", "/owner/dashboard" or "/admin/dashboard"

Redirects are never followed automatically. Visit and Landing return the
status and Location so callers can assert on guard decisions.

# Errors

Failed requests come back as *APIError carrying the HTTP status and the
service error code. Use errors.As to inspect them:

	var apiErr *nurserysdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == nurserysdk.ErrorCodeInvalidCredentials {
		// wrong email or password
	}

The same type is used by the server to write error bodies, so both sides
agree on the wire format.
*/
package nurserysdk
