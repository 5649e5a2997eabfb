// Package cpix implements a lossless RGBA image codec aimed at game-UI
// art with large flat regions and sharp edges.
//
// The codec selects, per fixed-size tile, a spatial predictor and a
// lossless color transform, then entropy-codes the prediction residuals
// with a family of static Huffman coders indexed by a per-pixel "chaos"
// metric. A short recent-match window replaces repeated residual tuples
// with a single symbol.
//
// Encoding:
//
//	data, err := cpix.Encode(img, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding:
//
//	img, err := cpix.Decode(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Pixels covered by the optional dominant-color mask or 2-D LZ
// collaborators are skipped by the core; see the Mask and LZ interfaces.
package cpix
