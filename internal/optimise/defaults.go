package optimise

import "quant-lab/internal/strategy"

// DefaultSpace 返回各策略内置的寻优参数空间。
// 买入持有没有参数，返回空空间。
func DefaultSpace(kind strategy.Type) Space {
	switch kind {
	case strategy.TypeMovingAverageCrossover:
		return Space{
			IntRange("short_window", 5, 51, 5),
			IntRange("long_window", 20, 201, 20),
		}
	case strategy.TypeMeanReversion:
		return Space{
			IntRange("window", 5, 101, 5),
			List("std_dev", 0.5, 1.0, 1.5, 2.0, 2.5, 3.0),
		}
	case strategy.TypePairsTrading:
		return Space{
			IntRange("window", 10, 101, 10),
			List("entry_z_score", 1.0, 1.5, 2.0, 2.5, 3.0),
			List("exit_z_score", 0.1, 0.5, 1.0, 1.5),
		}
	default:
		return nil
	}
}
