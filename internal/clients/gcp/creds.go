package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// Credentials carries the service-account material for every GCP client in
// one value so constructors receive it explicitly instead of each client
// reaching into the environment on its own.
type Credentials struct {
	// Either a path to a credentials file or inline JSON (detected by a
	// leading brace). Empty falls back to application default credentials.
	Source string
}

func (c Credentials) ClientOptions() []option.ClientOption {
	src := strings.TrimSpace(c.Source)
	if src == "" {
		return nil
	}
	if strings.HasPrefix(src, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(src))}
	}
	return []option.ClientOption{option.WithCredentialsFile(src)}
}
