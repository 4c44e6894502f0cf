package app

import (
	"bufio"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Authenticator guards mutating routes with Basic Auth. A nil hash means
// no credentials were configured and every request is let through.
type Authenticator struct {
	user string
	hash *passwordHash
	log  *zap.SugaredLogger
}

// LoadAuthenticator loads credentials from path (format: username:hash)
func LoadAuthenticator(path string, log *zap.SugaredLogger) (*Authenticator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("⚠️  No auth file found at %s: mutating routes are UNPROTECTED (local development only). Create one with: holiday-planner hash-password", path)
			return &Authenticator{log: log}, nil
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	hash, err := parsePasswordHash(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid auth file %s: %w", path, err)
	}

	log.Infof("✅ Basic Auth enabled (user: %s, file: %s)", parts[0], path)
	return &Authenticator{user: parts[0], hash: hash, log: log}, nil
}

// Enabled reports whether credentials are configured
func (a *Authenticator) Enabled() bool {
	return a.hash != nil
}

// passwordHash is a decoded $argon2id$ string
type passwordHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// String encodes h as $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
func (h passwordHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key))
}

// matches reports whether password derives to h.key
func (h passwordHash) matches(password string) bool {
	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(h.key, key) == 1
}

// parsePasswordHash decodes an encoded Argon2id hash
func parsePasswordHash(encoded string) (*passwordHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("not an argon2id hash")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, fmt.Errorf("unsupported argon2 version %q", parts[2])
	}

	h := &passwordHash{}
	for _, param := range strings.Split(parts[3], ",") {
		name, value, ok := strings.Cut(param, "=")
		if !ok {
			return nil, fmt.Errorf("invalid hash parameter %q", param)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid hash parameter %q: %w", param, err)
		}
		switch name {
		case "m":
			h.memory = uint32(n)
		case "t":
			h.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, fmt.Errorf("invalid hash parameter %q", param)
			}
			h.threads = uint8(n)
		default:
			return nil, fmt.Errorf("unknown hash parameter %q", name)
		}
	}
	if h.memory == 0 || h.time == 0 || h.threads == 0 {
		return nil, fmt.Errorf("incomplete hash parameters %q", parts[3])
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("failed to decode hash: %w", err)
	}
	if len(h.key) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	return h, nil
}

// HashPassword creates an Argon2id hash of the password with a fresh salt
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	h := passwordHash{
		memory:  argon2Memory,
		time:    argon2Time,
		threads: argon2Threads,
		salt:    salt,
		key:     argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen),
	}
	return h.String(), nil
}

// VerifyPassword verifies a password against an encoded Argon2id hash
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parsePasswordHash(encoded)
	if err != nil {
		return false, err
	}
	return h.matches(password), nil
}

// RequireAuth is a middleware that enforces Basic Auth with Argon2id
func (a *Authenticator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1

		passMatch := ok && userMatch && a.hash.matches(pass)

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="Holiday Planner"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			a.log.Warnf("⚠️  Failed auth attempt from %s (user: %s)", r.RemoteAddr, user)
			return
		}

		next(w, r)
	}
}

// CreateAuthFile writes path with username and hashed password. When the
// file exists and overwrite is false, the user is asked on in/out.
func CreateAuthFile(path, username, password string, overwrite bool, in io.Reader, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			fmt.Fprintf(out, "Auth file already exists: %s\n", path)
			fmt.Fprint(out, "Overwrite? (y/N): ")
			response, _ := bufio.NewReader(in).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				return fmt.Errorf("aborted")
			}
		}
		// Delete existing file (necessary because we use 0400 read-only)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Write to file with format: username:hash (0400 = read-only)
	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(path, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Fprintf(out, "✅ Auth file created: %s (mode: 0400 read-only)\n", path)
	fmt.Fprintf(out, "   Username: %s\n", username)
	return nil
}
