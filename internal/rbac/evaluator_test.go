package rbac

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, raw string) Principal {
	t.Helper()
	p, err := Decode([]byte(raw))
	require.NoError(t, err)
	return p
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	for _, role := range []string{"ADMIN", "admin", "Admin", "aDmIn"} {
		p := mustDecode(t, `{"maNguoiDung":1,"vaiTro":"`+role+`","dsQuyenSoHuu":[]}`)
		require.True(t, IsAdmin(p), role)
		for _, id := range []PermissionID{0, 1, 26, 130, 999, -5} {
			assert.True(t, Has(p, id), "role %s perm %d", role, id)
		}
	}
}

func TestAdminRoleFromTenVaiTro(t *testing.T) {
	p := mustDecode(t, `{"tenVaiTro":"admin"}`)
	require.True(t, IsAdmin(p))
	require.True(t, Has(p, 999))
}

func TestUserPermissionMembership(t *testing.T) {
	p := mustDecode(t, `{"vaiTro":"USER","dsQuyenSoHuu":[26]}`)
	require.False(t, IsAdmin(p))
	require.True(t, Has(p, 26))
	require.False(t, Has(p, 27))
	require.True(t, Has(p, None))
}

func TestNonAdminDeniedOutsideSet(t *testing.T) {
	p := mustDecode(t, `{"vaiTro":"KHO","quyen":[20,"21",{"maQuyen":22}]}`)
	granted := map[PermissionID]bool{20: true, 21: true, 22: true}
	for id := PermissionID(1); id <= 200; id++ {
		assert.Equal(t, granted[id], Has(p, id), "perm %d", id)
	}
}

func TestNormalizePermissionsShapesAgree(t *testing.T) {
	payloads := []string{
		`{"vaiTro":"USER","dsQuyenSoHuu":[26,40,120]}`,
		`{"vaiTro":"USER","dsQuyenSoHuu":["120","26","40"]}`,
		`{"vaiTro":"USER","dsQuyenSoHuu":[{"maQuyen":40},{"id":26},{"maQuyen":"120","id":7}]}`,
		`{"vaiTro":"USER","quyen":[40,26,120,26]}`,
		`{"quyen":{"maNguoiDung":3,"vaiTro":"USER","dsQuyenSoHuu":[{"maQuyen":26},40,"120"]}}`,
		`{"quyen":{"maNguoiDung":3,"vaiTro":"USER","quyen":[120,40,26]}}`,
	}
	want := []PermissionID{26, 40, 120}
	for _, raw := range payloads {
		p := mustDecode(t, raw)
		require.Equal(t, want, p.Permissions(), raw)
	}
}

func TestNormalizePermissionsIdempotent(t *testing.T) {
	first := NormalizePermissions(json.RawMessage(`[{"maQuyen":5},"6",7.0,{"id":8}]`))
	ids := make([]int, 0, len(first))
	for id := range first {
		ids = append(ids, int(id))
	}
	encoded, err := json.Marshal(ids)
	require.NoError(t, err)
	second := NormalizePermissions(encoded)
	require.Equal(t, first, second)
	require.Len(t, second, 4)
}

func TestNormalizePermissionsNonArray(t *testing.T) {
	for _, raw := range []string{``, `null`, `{"a":1}`, `"26"`, `26`} {
		require.Empty(t, NormalizePermissions(json.RawMessage(raw)), raw)
	}
}

func TestNormalizePermissionsDropsUncoercible(t *testing.T) {
	set := NormalizePermissions(json.RawMessage(`["abc",null,{"ten":"x"},true,14]`))
	require.Len(t, set, 1)
	_, ok := set[14]
	require.True(t, ok)
}

func TestNumericStringsUseLeadingDigits(t *testing.T) {
	set := NormalizePermissions(json.RawMessage(`["26abc","1e3"," 30 ","2.9","0x1A",1e3,{"maQuyen":"41x"}]`))
	for _, id := range []PermissionID{26, 1, 30, 2, 1000, 41} {
		_, ok := set[id]
		require.True(t, ok, id)
	}
	require.Len(t, set, 6)
}

func TestMaQuyenZeroFallsBackToID(t *testing.T) {
	set := NormalizePermissions(json.RawMessage(`[{"maQuyen":0,"id":60}]`))
	_, ok := set[60]
	require.True(t, ok)
}

func TestMalformedPayloadIsAnonymous(t *testing.T) {
	p, err := Decode([]byte(`{"vaiTro":"ADMIN",`))
	require.Error(t, err)
	require.False(t, p.Authenticated())
	require.False(t, IsAdmin(p))
	require.False(t, Has(p, 26))
	require.Empty(t, p.Permissions())
}

func TestNestedShapeIdentity(t *testing.T) {
	p := mustDecode(t, `{"quyen":{"maNguoiDung":"u-9","hoTen":"Lan","vaiTro":"USER","dsQuyenSoHuu":[70]}}`)
	require.True(t, p.NestedShape())
	require.Equal(t, "u-9", p.UserID)
	require.Equal(t, "Lan", p.FullName)
	require.True(t, Has(p, 70))
}

func TestMissingPermissionsDefaultsEmpty(t *testing.T) {
	p := mustDecode(t, `{"maNguoiDung":4,"hoTen":"Minh","vaiTro":"USER"}`)
	require.True(t, p.Authenticated())
	require.Equal(t, "4", p.UserID)
	require.Empty(t, p.Permissions())
	require.False(t, Has(p, 14))
}

func TestAnonymousHasNothing(t *testing.T) {
	require.False(t, Has(Anonymous, None))
	require.False(t, IsAdmin(Anonymous))
	require.Nil(t, Menu(Anonymous))
}

func TestMenuFiltersRoutes(t *testing.T) {
	p := mustDecode(t, `{"vaiTro":"USER","dsQuyenSoHuu":[26,130]}`)
	var paths []string
	for _, item := range Menu(p) {
		paths = append(paths, item.Path)
	}
	require.Equal(t, []string{"/dashboard", "/masterdata/products", "/vouchers/imports", "/me"}, paths)

	admin := mustDecode(t, `{"vaiTro":"admin"}`)
	require.Len(t, Menu(admin), len(Routes))
}
