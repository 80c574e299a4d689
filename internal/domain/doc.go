// Package domain contains shared domain types used across aggregate sub-packages.
// Aggregate-specific types live in sub-packages (domain/declaration,
// domain/boundary, domain/project, domain/release). This root package holds
// sentinel errors and the validation types shared by all of them.
package domain
