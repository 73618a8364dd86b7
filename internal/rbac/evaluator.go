package rbac

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AdminRole bypasses every permission check.
const AdminRole = "ADMIN"

var upper = cases.Upper(language.Und)

// Principal is the decoded identity stored in the session at login.
type Principal struct {
	UserID   string
	FullName string
	Role     string

	perms         map[PermissionID]struct{}
	authenticated bool
	nested        bool
}

// Anonymous is the principal of a request without a usable session.
var Anonymous = Principal{}

// Authenticated reports whether a session identity exists.
func (p Principal) Authenticated() bool { return p.authenticated }

// NestedShape reports whether the identity came from the legacy payload
// nested under "quyen".
func (p Principal) NestedShape() bool { return p.nested }

// Permissions returns the normalized permission codes in ascending order.
func (p Principal) Permissions() []PermissionID {
	out := make([]PermissionID, 0, len(p.perms))
	for id := range p.perms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsAdmin reports whether the role name upper-cases to ADMIN.
func IsAdmin(p Principal) bool {
	if !p.authenticated {
		return false
	}
	return upper.String(p.Role) == AdminRole
}

// Has answers whether permID is granted. Admins hold every code and the
// zero code means no permission is required.
func Has(p Principal, permID PermissionID) bool {
	if !p.authenticated {
		return false
	}
	if IsAdmin(p) {
		return true
	}
	if permID == None {
		return true
	}
	_, ok := p.perms[permID]
	return ok
}

// HasAny is true when at least one code is granted.
func HasAny(p Principal, ids ...PermissionID) bool {
	for _, id := range ids {
		if Has(p, id) {
			return true
		}
	}
	return false
}

// userPayload is the login response kept verbatim in the session.
type userPayload struct {
	MaNguoiDung  json.RawMessage `json:"maNguoiDung"`
	HoTen        string          `json:"hoTen"`
	VaiTro       json.RawMessage `json:"vaiTro"`
	TenVaiTro    json.RawMessage `json:"tenVaiTro"`
	DsQuyenSoHuu json.RawMessage `json:"dsQuyenSoHuu"`
	Quyen        json.RawMessage `json:"quyen"`
}

// Decode parses a stored user payload. It always returns a usable principal:
// on malformed input the result is Anonymous and the error describes the
// problem for logging only.
func Decode(raw []byte) (Principal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Anonymous, nil
	}
	var outer userPayload
	if err := json.Unmarshal(raw, &outer); err != nil {
		return Anonymous, fmt.Errorf("rbac: decode user payload: %w", err)
	}

	user := outer
	nested := false
	if isJSONObject(outer.Quyen) {
		var inner userPayload
		if err := json.Unmarshal(outer.Quyen, &inner); err != nil {
			return Anonymous, fmt.Errorf("rbac: decode nested user payload: %w", err)
		}
		user = inner
		nested = true
	}

	role := jsonString(user.VaiTro)
	if role == "" {
		role = jsonString(user.TenVaiTro)
	}
	rawPerms := user.DsQuyenSoHuu
	if isJSONNull(rawPerms) {
		rawPerms = user.Quyen
	}

	p := Principal{
		UserID:        jsonScalar(user.MaNguoiDung),
		FullName:      user.HoTen,
		Role:          role,
		perms:         NormalizePermissions(rawPerms),
		authenticated: true,
		nested:        nested,
	}
	if p.UserID == "" && nested {
		p.UserID = jsonScalar(outer.MaNguoiDung)
	}
	if p.FullName == "" && nested {
		p.FullName = outer.HoTen
	}
	return p, nil
}

// NormalizePermissions coerces a raw permission list into a set of codes.
// Entries may be numbers, numeric strings or objects carrying maQuyen or id.
// Anything that is not an array yields the empty set.
func NormalizePermissions(raw json.RawMessage) map[PermissionID]struct{} {
	set := make(map[PermissionID]struct{})
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return set
	}
	for _, entry := range entries {
		id, ok := coerceEntry(entry)
		if !ok {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func coerceEntry(entry json.RawMessage) (PermissionID, bool) {
	if isJSONObject(entry) {
		var obj struct {
			MaQuyen json.RawMessage `json:"maQuyen"`
			ID      json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			return 0, false
		}
		if id, ok := coerceScalar(obj.MaQuyen); ok && id != 0 {
			return id, true
		}
		return coerceScalar(obj.ID)
	}
	return coerceScalar(entry)
}

var errNotNumeric = errors.New("not numeric")

func coerceScalar(raw json.RawMessage) (PermissionID, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isJSONNull(raw) {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err := parseLeadingInt(s)
		if err != nil {
			return 0, false
		}
		return PermissionID(n), true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return PermissionID(math.Trunc(f)), true
}

// parseLeadingInt reads the integer at the start of s and ignores whatever
// follows it: "26abc" is 26, "1e3" is 1, "2.9" is 2. A 0x prefix switches to
// hexadecimal. Text with no leading digit is rejected.
func parseLeadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && digitIn(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, errNotNumeric
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if neg {
		n = -n
	}
	return n, nil
}

func digitIn(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16:
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return false
	}
}

func isJSONObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isJSONNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func jsonScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if isJSONNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		return jsonString(raw)
	}
	if isJSONObject(raw) || raw[0] == '[' {
		return ""
	}
	return string(raw)
}
