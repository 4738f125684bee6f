package segmentation

// labelComponents performs connected-component labeling over a flat class
// volume indexed as z*width*height + y*width + x. Two voxels belong to the
// same component when they are face-adjacent (6-connected in 3D, 4-connected
// when depth is 1) and carry the same class value. Voxels whose class equals
// background receive label 0 and are never grouped.
//
// Returns the per-voxel label array and a count of voxels per label; counts
// is indexed by label, with counts[0] unused.
func labelComponents(values []uint8, width, height, depth int, background uint8) ([]int32, []int) {
	n := width * height * depth
	labels := make([]int32, n)
	counts := []int{0}

	sliceSize := width * height
	queue := make([]int, 0, 1024)
	next := int32(0)

	for start := 0; start < n; start++ {
		if labels[start] != 0 || values[start] == background {
			continue
		}

		// Flood fill a new component from this seed
		next++
		class := values[start]
		labels[start] = next
		size := 1
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			z := idx / sliceSize
			rem := idx - z*sliceSize
			y := rem / width
			x := rem - y*width

			// Face-adjacent neighbors only; diagonal voxels never connect
			if x > 0 {
				size += visit(values, labels, &queue, idx-1, class, next)
			}
			if x < width-1 {
				size += visit(values, labels, &queue, idx+1, class, next)
			}
			if y > 0 {
				size += visit(values, labels, &queue, idx-width, class, next)
			}
			if y < height-1 {
				size += visit(values, labels, &queue, idx+width, class, next)
			}
			if z > 0 {
				size += visit(values, labels, &queue, idx-sliceSize, class, next)
			}
			if z < depth-1 {
				size += visit(values, labels, &queue, idx+sliceSize, class, next)
			}
		}

		counts = append(counts, size)
	}

	return labels, counts
}

// visit claims a neighbor voxel for the current component when it is
// unlabeled and carries the same class value, returning 1 if claimed
func visit(values []uint8, labels []int32, queue *[]int, idx int, class uint8, label int32) int {
	if labels[idx] != 0 || values[idx] != class {
		return 0
	}
	labels[idx] = label
	*queue = append(*queue, idx)
	return 1
}

// largestComponent returns the label of the component with the most voxels,
// ignoring the background label 0. The boolean result is false when no
// component exists at all. When two components have equal size, the one
// labeled first (earliest seed in scan order) wins; callers must not rely
// on any particular tie-break.
func largestComponent(counts []int) (int32, bool) {
	best := int32(0)
	bestCount := 0
	for label := 1; label < len(counts); label++ {
		if counts[label] > bestCount {
			best = int32(label)
			bestCount = counts[label]
		}
	}
	return best, best != 0
}

// backgroundSeedLabel identifies the component representing the exterior
// air surrounding the body. It assumes the voxel at index [0,0,0] always
// lies outside the patient, which holds for standard chest acquisitions
// but can fail on tightly cropped or rotated scans. Replacing this with a
// majority vote over boundary voxels would not affect the rest of the
// pipeline.
func backgroundSeedLabel(labels []int32) int32 {
	return labels[0]
}
