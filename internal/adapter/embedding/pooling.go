package embedding

import "math"

// ONNXConfig locates the runtime library, the exported sentence-transformer
// model and its tokenizer.json.
type ONNXConfig struct {
	Library   string
	ModelPath string
	Tokenizer string
	MaxSeqLen int
	ModelID   string
}

// truncate keeps the final special token when cutting a sequence.
func truncate(ids []int, max int) []int {
	if len(ids) <= max {
		return ids
	}
	out := make([]int, max)
	copy(out, ids[:max-1])
	out[max-1] = ids[len(ids)-1]
	return out
}

// meanPool averages token embeddings weighted by the attention mask and
// returns L2 normalized sentence vectors.
func meanPool(tokens []float32, mask []int64, batch, seqLen, hidden int) [][]float32 {
	out := make([][]float32, batch)
	for b := 0; b < batch; b++ {
		sum := make([]float64, hidden)
		var count float64
		for s := 0; s < seqLen; s++ {
			if mask[b*seqLen+s] == 0 {
				continue
			}
			count++
			base := (b*seqLen + s) * hidden
			for h := 0; h < hidden; h++ {
				sum[h] += float64(tokens[base+h])
			}
		}
		if count < 1e-9 {
			count = 1e-9
		}

		var norm float64
		for h := range sum {
			sum[h] /= count
			norm += sum[h] * sum[h]
		}
		norm = math.Max(math.Sqrt(norm), 1e-12)

		vec := make([]float32, hidden)
		for h := range sum {
			vec[h] = float32(sum[h] / norm)
		}
		out[b] = vec
	}
	return out
}
