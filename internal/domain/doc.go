// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/user, domain/project,
// domain/board, domain/card). Rules that span entities live in domain/access,
// domain/position and domain/membership. This root package holds sentinel
// errors and validation types shared by all of them.
package domain
