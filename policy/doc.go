// Package policy provides optional rules deciding whether a step task may run.
//
// Rules match step node paths such as "root/fetch" or "root/parallel[1]/*".
// A nil policy runs everything.
package policy
