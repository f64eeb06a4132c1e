package externals

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"block-editor", "blockEditor"},
		{"element", "element"},
		{"edit-post-sidebar", "editPostSidebar"},
		{"blockEditor", "blockEditor"},
		{"a11y", "a11y"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := CamelCase(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CamelCase(got), "CamelCase must be idempotent")
		})
	}
}

func TestNamespace_GlobalNameAndHandle(t *testing.T) {
	ns := DefaultNamespace()

	assert.Equal(t, "wp.blockEditor", ns.GlobalName("@wordpress/block-editor"))
	assert.Equal(t, "wp.element", ns.GlobalName("@wordpress/element"))
	assert.Equal(t, "wp-blockEditor", ns.Handle("wp.blockEditor"))
	assert.Equal(t, "lodash", ns.Handle("lodash"))
	assert.True(t, ns.IsExperimental("__experimentalText"))
	assert.False(t, ns.IsExperimental("Button"))
}

func TestNamespace_Validate(t *testing.T) {
	valid := DefaultNamespace()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Namespace)
		errMsg string
	}{
		{"empty prefix", func(n *Namespace) { n.PackagePrefix = "" }, "package prefix cannot be empty"},
		{"bad root", func(n *Namespace) { n.GlobalRoot = "my-root" }, "not a valid identifier"},
		{"empty handle prefix", func(n *Namespace) { n.HandlePrefix = "" }, "handle prefix cannot be empty"},
		{"empty marker", func(n *Namespace) { n.ExperimentalMarker = "" }, "experimental marker cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := DefaultNamespace()
			tt.mutate(&ns)
			err := ns.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewRegistry_FiltersAndKeepsOrder(t *testing.T) {
	deps := []Dependency{
		{Name: "react", Version: "^18.0.0"},
		{Name: "@wordpress/element", Version: "^5.0.0"},
		{Name: "@wordpress/block-editor", Version: "^12.0.0"},
		{Name: "@other/components", Version: "1.0.0"},
		{Name: "@wordpress/components", Version: "^25.0.0"},
		{Name: "@wordpress/element", Version: "^6.0.0"},
	}

	reg := NewRegistry(DefaultNamespace(), deps)

	assert.Equal(t, []PackageDependency{
		{PackageID: "@wordpress/element", GlobalName: "wp.element"},
		{PackageID: "@wordpress/block-editor", GlobalName: "wp.blockEditor"},
		{PackageID: "@wordpress/components", GlobalName: "wp.components"},
	}, reg.Dependencies())

	dep, ok := reg.Lookup("@wordpress/block-editor")
	require.True(t, ok)
	assert.Equal(t, "wp.blockEditor", dep.GlobalName)

	_, ok = reg.Lookup("react")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/package.json", []byte(`{
  "name": "my-block",
  "scripts": {"build": "wp-externals build"},
  "dependencies": {
    "@wordpress/i18n": "^4.0.0",
    "classnames": "^2.3.0",
    "@wordpress/api-fetch": "^6.0.0"
  },
  "devDependencies": {
    "@wordpress/data": "^9.0.0",
    "@wordpress/i18n": "^4.0.0"
  }
}`), 0644))

	t.Run("dependencies only", func(t *testing.T) {
		reg, err := LoadRegistry(fs, "/project/package.json", DefaultNamespace(), false)
		require.NoError(t, err)
		assert.Equal(t, []PackageDependency{
			{PackageID: "@wordpress/i18n", GlobalName: "wp.i18n"},
			{PackageID: "@wordpress/api-fetch", GlobalName: "wp.apiFetch"},
		}, reg.Dependencies())
	})

	t.Run("with dev dependencies", func(t *testing.T) {
		reg, err := LoadRegistry(fs, "/project/package.json", DefaultNamespace(), true)
		require.NoError(t, err)
		assert.Equal(t, 3, reg.Len())
		dep, ok := reg.Lookup("@wordpress/data")
		require.True(t, ok)
		assert.Equal(t, "wp.data", dep.GlobalName)
	})
}

func TestLoadRegistry_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"dependencies": `), 0644))
	require.NoError(t, afero.WriteFile(fs, "/array.json", []byte(`[]`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/numeric.json", []byte(`{"dependencies": {"@wordpress/element": 5}}`), 0644))

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"missing file", "/missing.json", "failed to read package metadata"},
		{"truncated json", "/bad.json", "failed to parse package metadata"},
		{"not an object", "/array.json", "must be a JSON object"},
		{"non-string version", "/numeric.json", "invalid dependencies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry(fs, tt.path, DefaultNamespace(), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadRegistry_NoDependencies(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/package.json", []byte(`{"name": "empty", "dependencies": null}`), 0644))

	reg, err := LoadRegistry(fs, "/package.json", DefaultNamespace(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}
