// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrQRIDExists signals that a patrol point cannot be created
// because another point already owns the same QR identifier, while the
// per-entity not-found errors let handlers answer 404 instead of 500.
package repository

import "errors"

// ErrCompanyNotFound is returned when a company id does not resolve.
var ErrCompanyNotFound = errors.New("company not found")

// ErrSiteNotFound is returned when a site id does not resolve. It is also
// returned when creating an area under a missing site.
var ErrSiteNotFound = errors.New("site not found")

// ErrAreaNotFound is returned when an area id does not resolve. It is also
// returned when creating a point under a missing area.
var ErrAreaNotFound = errors.New("area not found")

// ErrPointNotFound is returned when a point id or scanned QR id does not
// match any patrol point.
var ErrPointNotFound = errors.New("point not found")

// ErrLogNotFound is returned when a patrol log id does not resolve during
// an administrative correction.
var ErrLogNotFound = errors.New("patrol log not found")

// ErrQRIDExists is returned when inserting a point whose qr_id is already
// taken by another point. Handlers translate this into HTTP 409.
var ErrQRIDExists = errors.New("qr id already exists")
