/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rediskv

import "context"

// Credentials authenticate a connection to the coordination store.
type Credentials struct {
	Username string
	Password string
}

// CredentialsProvider supplies connection credentials. Rotation is
// owned elsewhere; this layer only consumes the current credentials and
// observes whether a refresh happened, so a reconnect can be attributed
// to rotation rather than an outage.
type CredentialsProvider interface {
	// Credentials returns the current credentials.
	Credentials(ctx context.Context) (Credentials, error)
	// Refreshed reports whether the credentials were rotated since they
	// were last fetched.
	Refreshed() bool
}

// StaticCredentials is a CredentialsProvider with fixed credentials
// that are never rotated.
type StaticCredentials struct {
	Username string
	Password string
}

func (s StaticCredentials) Credentials(context.Context) (Credentials, error) {
	return Credentials{Username: s.Username, Password: s.Password}, nil
}

func (s StaticCredentials) Refreshed() bool { return false }

var _ CredentialsProvider = StaticCredentials{}
