/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package wire

import "github.com/OneOfOne/xxhash"

// IconID derives a stable, non-zero 24-bit identifier from the
// concatenated bytes of an icon's image variants, so that two icons with
// identical content always collapse to the same id. Grounded on
// cmn/cos/uuid.go's entity-id derivation: xxhash over the identifying
// bytes, folded down and forced non-zero.
func IconID(data ...[]byte) uint32 {
	h := xxhash.New64()
	for _, d := range data {
		h.Write(d)
	}
	sum := h.Sum64()
	id := uint32(sum^(sum>>32)) & 0xFFFFFF
	if id == 0 {
		id = 1
	}
	return id
}