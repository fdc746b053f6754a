package apisurface

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"codedigest/internal/lang"
)

// routeFragments gate endpoint extraction: only files whose path contains one
// of these segments are inspected, bounding false positives. Other files are
// skipped entirely.
var routeFragments = []string{"routes", "route", "router", "controller", "controllers", "api", "handler", "handlers", "pages", "app"}

var (
	// router.get('/users/:id', …) / app.post("/users", …)
	reCallRoute = regexp.MustCompile(`\b(?:app|router|server|api)\.(get|post|put|delete|patch|options|head|all)\(\s*` + "[`'\"]" + `([^` + "`'\"" + `]+)` + "[`'\"]")
	// @app.route('/users', methods=['GET', 'POST'])
	rePyRoute = regexp.MustCompile(`@\w+\.route\(\s*['"]([^'"]+)['"]([^)]*)\)`)
	// methods=['GET','POST']
	rePyMethods = regexp.MustCompile(`methods\s*=\s*\[([^\]]*)\]`)
	// export async function GET(…) / export const POST = …
	reMethodExport = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?(?:function\s+|const\s+)(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD)\b`)

	reBracketSeg = regexp.MustCompile(`\[([^\]/]+)\]`)
)

// RouteCandidate reports whether a file's path matches the route/controller
// naming conventions that make endpoint extraction worthwhile.
func RouteCandidate(p string) bool {
	for _, seg := range strings.Split(strings.ToLower(p), "/") {
		// Compare the filename without its extension so "router.ts" matches.
		if i := strings.IndexByte(seg, '.'); i > 0 {
			seg = seg[:i]
		}
		for _, frag := range routeFragments {
			if seg == frag {
				return true
			}
		}
	}
	return false
}

// ExtractEndpoints detects HTTP routes in one file. A file may yield
// endpoints from more than one convention; no cross-convention dedup is
// applied.
func ExtractEndpoints(p string, content []byte, l lang.Language) []Endpoint {
	if !RouteCandidate(p) {
		return nil
	}
	if !utf8.Valid(content) {
		return nil
	}

	var out []Endpoint
	src := string(content)

	switch l {
	case lang.JS:
		out = append(out, callRoutes(p, src)...)
		out = append(out, fileRoutes(p, src)...)
	case lang.Python:
		out = append(out, callRoutes(p, src)...)
		out = append(out, decoratorRoutes(p, src)...)
	}
	return out
}

// callRoutes extracts explicit method-call registrations.
func callRoutes(p, src string) []Endpoint {
	var out []Endpoint
	for _, m := range reCallRoute.FindAllStringSubmatch(src, -1) {
		method := strings.ToUpper(m[1])
		if method == "ALL" {
			method = "ANY"
		}
		out = append(out, Endpoint{Path: m[2], Method: method, File: p})
	}
	return out
}

// decoratorRoutes extracts Flask-style @x.route declarations. Each listed
// method yields one endpoint; an absent methods list records "ANY".
func decoratorRoutes(p, src string) []Endpoint {
	var out []Endpoint
	for _, m := range rePyRoute.FindAllStringSubmatch(src, -1) {
		route := m[1]
		methods := []string{"ANY"}
		if mm := rePyMethods.FindStringSubmatch(m[2]); mm != nil {
			methods = methods[:0]
			for _, raw := range strings.Split(mm[1], ",") {
				v := strings.ToUpper(strings.Trim(strings.TrimSpace(raw), `'"`))
				if v != "" {
					methods = append(methods, v)
				}
			}
			if len(methods) == 0 {
				methods = []string{"ANY"}
			}
		}
		for _, method := range methods {
			out = append(out, Endpoint{Path: route, Method: method, File: p})
		}
	}
	return out
}

// fileRoutes derives routes from the file's own location under a fixed
// routing directory ("api", also nested as "pages/api" or "app/api").
// Bracketed segments become parameterized segments; a trailing "index" (or
// Next-style "route") filename is dropped. When the file exports no
// method-named handler the method is recorded as "ANY" rather than omitted.
func fileRoutes(p, src string) []Endpoint {
	segs := strings.Split(p, "/")
	start := -1
	for i, seg := range segs {
		if seg == "api" {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	routeSegs := append([]string(nil), segs[start:]...)
	last := routeSegs[len(routeSegs)-1]
	if i := strings.LastIndexByte(last, '.'); i > 0 {
		last = last[:i]
	}
	if last == "index" || last == "route" {
		routeSegs = routeSegs[:len(routeSegs)-1]
	} else {
		routeSegs[len(routeSegs)-1] = last
	}

	route := "/" + strings.Join(routeSegs, "/")
	route = reBracketSeg.ReplaceAllString(route, ":$1")

	var out []Endpoint
	for _, m := range reMethodExport.FindAllStringSubmatch(src, -1) {
		out = append(out, Endpoint{Path: route, Method: m[1], File: p})
	}
	if len(out) == 0 {
		out = append(out, Endpoint{Path: route, Method: "ANY", File: p})
	}
	return out
}
