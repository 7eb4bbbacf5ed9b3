// Package preflight provides readiness checks for the tools and filesystem
// paths ytcomments depends on.
//
// The CLI "ytcomments status" command runs RunAll and CheckSystemDeps to show
// whether a collect or sort run can succeed before starting one. Paths that do
// not exist yet are accepted when their nearest existing parent is writable,
// since collect creates the cache directory on demand.
package preflight
