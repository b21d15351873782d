// Package optical implements the codec for a simulated five-dimensional
// optical storage channel: payload bytes are forward-error-protected,
// quantised onto intensity and polarization levels, and laid out as a voxel
// lattice; reading reverses the pipeline and reports correction
// diagnostics.
//
// The write and read paths share three bit-exact conventions: MSB-first bit
// ordering everywhere, x-fastest lattice addressing, and half-away-from-zero
// rounding in the quantiser. Any deviation on one side breaks the
// round-trip guarantee, so the shared pieces live here and nowhere else.
package optical
