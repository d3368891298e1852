// Package model contains the in-memory representation of process trees and
// the values threaded through their execution.
//
// The building blocks live in sub-packages: `graph` defines the closed set of
// node kinds, conditions and tasks, `state` defines parameter contexts and the
// state cell, and `types` defines the error taxonomy shared by the runtime.
package model
