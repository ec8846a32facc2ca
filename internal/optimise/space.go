package optimise

// Dimension 表示一个参数维度：参数名与其全部候选值。
// 固定值即单元素维度，候选集合总是显式给出，从不推断。
type Dimension struct {
	Name   string
	Values []float64
}

// Fixed 构建单一取值的维度。
func Fixed(name string, value float64) Dimension {
	return Dimension{Name: name, Values: []float64{value}}
}

// List 构建显式候选列表维度。
func List(name string, values ...float64) Dimension {
	return Dimension{Name: name, Values: values}
}

// IntRange 构建 [start, stop) 步长为 step 的整数候选维度，
// 语义与 Python range 对齐。
func IntRange(name string, start, stop, step int) Dimension {
	var values []float64
	if step > 0 {
		for v := start; v < stop; v += step {
			values = append(values, float64(v))
		}
	}
	return Dimension{Name: name, Values: values}
}

// Space 是有序的参数维度列表，枚举顺序由声明顺序决定。
type Space []Dimension

// Size 返回组合总数，任一维度为空时为0。
func (s Space) Size() int {
	if len(s) == 0 {
		return 0
	}
	size := 1
	for _, dim := range s {
		size *= len(dim.Values)
	}
	return size
}

// Combinations 按笛卡尔积顺序枚举全部参数组合：第一个维度变化最慢，
// 最后一个维度变化最快。顺序确定，供平局时首见者胜的归约使用。
func (s Space) Combinations() []map[string]float64 {
	size := s.Size()
	if size == 0 {
		return nil
	}

	combos := make([]map[string]float64, 0, size)
	indices := make([]int, len(s))
	for {
		combo := make(map[string]float64, len(s))
		for i, dim := range s {
			combo[dim.Name] = dim.Values[indices[i]]
		}
		combos = append(combos, combo)

		// 自右向左进位
		i := len(s) - 1
		for i >= 0 {
			indices[i]++
			if indices[i] < len(s[i].Values) {
				break
			}
			indices[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return combos
}
