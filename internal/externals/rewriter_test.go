package externals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRewriter(pkgs ...string) *Rewriter {
	deps := make([]Dependency, len(pkgs))
	for i, pkg := range pkgs {
		deps[i] = Dependency{Name: pkg, Version: "*"}
	}
	return NewRewriter(NewRegistry(DefaultNamespace(), deps))
}

func TestRewriter_Rewrite(t *testing.T) {
	rw := newTestRewriter("@wordpress/components", "@wordpress/element", "@wordpress/block-editor")

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "named imports",
			src:  `import { Button, Panel } from '@wordpress/components';`,
			want: `const { Button, Panel } = wp.components;`,
		},
		{
			name: "regular and experimental",
			src:  `import { Button, __experimentalText } from '@wordpress/components';`,
			want: "const { Button } = wp.components;\nimport { __experimentalText } from '@wordpress/components';",
		},
		{
			name: "only experimental",
			src:  `import { __experimentalText } from '@wordpress/components';`,
			want: `import { __experimentalText } from '@wordpress/components';`,
		},
		{
			name: "default import",
			src:  `import Foo from '@wordpress/element';`,
			want: `const Foo = wp.element;`,
		},
		{
			name: "default import without semicolon and double quotes",
			src:  `import Foo from "@wordpress/element"`,
			want: `const Foo = wp.element;`,
		},
		{
			name: "multiline list with trailing comma",
			src:  "import {\n\tuseState,\n\tuseEffect,\n} from '@wordpress/element'",
			want: `const { useState, useEffect } = wp.element;`,
		},
		{
			name: "kebab package",
			src:  `import { BlockControls } from '@wordpress/block-editor';`,
			want: `const { BlockControls } = wp.blockEditor;`,
		},
		{
			name: "unrelated package untouched",
			src:  `import { map } from 'lodash';`,
			want: `import { map } from 'lodash';`,
		},
		{
			name: "package prefix does not match longer id",
			src:  `import { X } from '@wordpress/element-extra';`,
			want: `import { X } from '@wordpress/element-extra';`,
		},
		{
			name: "namespace import untouched",
			src:  `import * as element from '@wordpress/element';`,
			want: `import * as element from '@wordpress/element';`,
		},
		{
			name: "empty braces left alone",
			src:  `import {} from '@wordpress/element';`,
			want: `import {} from '@wordpress/element';`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.Rewrite(tt.src))
		})
	}
}

func TestRewriter_RewriteKeepsSurroundingCode(t *testing.T) {
	rw := newTestRewriter("@wordpress/element", "@wordpress/i18n")

	src := `import './style.css';
import { createElement } from '@wordpress/element';
import { __ } from '@wordpress/i18n';
import helper from './helper';

export const title = __('Title');
`
	want := `import './style.css';
const { createElement } = wp.element;
const { __ } = wp.i18n;
import helper from './helper';

export const title = __('Title');
`
	assert.Equal(t, want, rw.Rewrite(src))
}

func TestRewriter_RewriteWithStats(t *testing.T) {
	rw := newTestRewriter("@wordpress/element", "@wordpress/components")

	src := `import { useState } from '@wordpress/element';
import Element from '@wordpress/element';
import { Button } from '@wordpress/components';`

	out, stats := rw.RewriteWithStats(src)
	assert.NotContains(t, out, "from '@wordpress/element'")
	assert.Equal(t, map[string]int{
		"@wordpress/element":    2,
		"@wordpress/components": 1,
	}, stats)
}

func TestNewRewriter_TwoRulesPerPackage(t *testing.T) {
	rw := newTestRewriter("@wordpress/element", "@wordpress/data", "react")

	rules := rw.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, "@wordpress/element", rules[0].Package)
	assert.Equal(t, "@wordpress/element", rules[1].Package)
	assert.Equal(t, "@wordpress/data", rules[2].Package)
}

func TestRewriteRule_ApplyNoMatch(t *testing.T) {
	rw := newTestRewriter("@wordpress/element")
	out, n := rw.Rules()[0].Apply("const x = 1;")
	assert.Equal(t, "const x = 1;", out)
	assert.Zero(t, n)
}
