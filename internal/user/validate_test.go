package user

import "testing"

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid", username: "alice_1", email: "alice@example.com", password: "secret1", wantErr: false},
		{name: "username too short", username: "ab", email: "a@b.co", password: "secret1", wantErr: true},
		{name: "username too long", username: "a234567890123456789012345678901", email: "a@b.co", password: "secret1", wantErr: true},
		{name: "username bad chars", username: "alice!", email: "a@b.co", password: "secret1", wantErr: true},
		{name: "bad email", username: "alice", email: "not-an-email", password: "secret1", wantErr: true},
		{name: "short password", username: "alice", email: "a@b.co", password: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistration(%q, %q, ...) = %v, wantErr %v",
					tt.username, tt.email, err, tt.wantErr)
			}
		})
	}
}
