package externals

import (
	"fmt"
	"regexp"
	"strings"
)

// RewriteRule replaces every match of Pattern with the result of Replace,
// which receives the full match followed by the capture groups.
type RewriteRule struct {
	Package string
	Pattern *regexp.Regexp
	Replace func(groups []string) string
}

// Apply rewrites src and reports how many statements were replaced.
func (r RewriteRule) Apply(src string) (string, int) {
	matches := r.Pattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, 0
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = src[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(src[last:loc[0]])
		b.WriteString(r.Replace(groups))
		last = loc[1]
	}
	b.WriteString(src[last:])
	return b.String(), len(matches)
}

// Rewriter turns imports of externalized packages into global lookups.
type Rewriter struct {
	rules []RewriteRule
}

// NewRewriter builds a named-import rule and a default-import rule for every
// package in the registry, in registry order.
func NewRewriter(reg *Registry) *Rewriter {
	ns := reg.Namespace()
	rw := &Rewriter{}
	for _, dep := range reg.Dependencies() {
		rw.rules = append(rw.rules, namedImportRule(ns, dep), defaultImportRule(dep))
	}
	return rw
}

// Rules returns the rules in application order.
func (rw *Rewriter) Rules() []RewriteRule {
	return append([]RewriteRule(nil), rw.rules...)
}

// Rewrite applies every rule to src. Text that matches no rule is returned
// untouched.
func (rw *Rewriter) Rewrite(src string) string {
	out, _ := rw.RewriteWithStats(src)
	return out
}

// RewriteWithStats is Rewrite plus the number of rewritten statements per
// package. Packages with no rewrites are absent from the map.
func (rw *Rewriter) RewriteWithStats(src string) (string, map[string]int) {
	stats := make(map[string]int)
	for _, rule := range rw.rules {
		var n int
		src, n = rule.Apply(src)
		if n > 0 {
			stats[rule.Package] += n
		}
	}
	return src, stats
}

// namedImportRule handles `import { A, B } from 'pkg';`. Experimental
// identifiers stay behind as a real import of pkg.
func namedImportRule(ns Namespace, dep PackageDependency) RewriteRule {
	pkg := regexp.QuoteMeta(dep.PackageID)
	return RewriteRule{
		Package: dep.PackageID,
		Pattern: regexp.MustCompile(`import\s*\{\s*([^}]+?)\}\s*from\s*['"]` + pkg + `['"];?`),
		Replace: func(groups []string) string {
			var regular, experimental []string
			for _, ident := range strings.Split(groups[1], ",") {
				ident = strings.TrimSpace(ident)
				if ident == "" {
					continue
				}
				if ns.IsExperimental(ident) {
					experimental = append(experimental, ident)
				} else {
					regular = append(regular, ident)
				}
			}

			var stmts []string
			if len(regular) > 0 {
				stmts = append(stmts, fmt.Sprintf("const { %s } = %s;", strings.Join(regular, ", "), dep.GlobalName))
			}
			if len(experimental) > 0 {
				stmts = append(stmts, fmt.Sprintf("import { %s } from '%s';", strings.Join(experimental, ", "), dep.PackageID))
			}
			return strings.Join(stmts, "\n")
		},
	}
}

// defaultImportRule handles `import X from 'pkg';`.
func defaultImportRule(dep PackageDependency) RewriteRule {
	pkg := regexp.QuoteMeta(dep.PackageID)
	return RewriteRule{
		Package: dep.PackageID,
		Pattern: regexp.MustCompile(`import\s*([\w-]+)\s*from\s*['"]` + pkg + `['"];?`),
		Replace: func(groups []string) string {
			return fmt.Sprintf("const %s = %s;", groups[1], dep.GlobalName)
		},
	}
}
