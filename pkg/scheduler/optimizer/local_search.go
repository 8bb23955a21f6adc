// Package optimizer 提供局部搜索优化器
package optimizer

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// Config 优化配置
type Config struct {
	MaxIterations    int           `json:"max_iterations"`    // 两阶段合计最大迭代次数
	MaxTime          time.Duration `json:"max_time"`          // 最大运行时间
	InitialTemp      float64       `json:"initial_temp"`      // 模拟退火初始温度
	CoolingRate      float64       `json:"cooling_rate"`      // 冷却速率
	TabuSize         int           `json:"tabu_size"`         // 禁忌表大小
	StopOnPlateau    bool          `json:"stop_on_plateau"`   // 平台期停止
	PlateauThreshold int           `json:"plateau_threshold"` // 平台期阈值（无改进迭代次数）
	Seed             int64         `json:"seed"`              // 随机种子（0 使用时间种子）
}

// DefaultConfig 默认优化配置
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:    20000,
		MaxTime:          60 * time.Second,
		InitialTemp:      100.0,
		CoolingRate:      0.999,
		TabuSize:         200,
		StopOnPlateau:    true,
		PlateauThreshold: 2000,
	}
}

// LocalSearchOptimizer 局部搜索优化器
// 两阶段运行：第一阶段全部非钉住单元可动；
// 第二阶段冻结正式合同分配，只动灵活用工与空缺单元
type LocalSearchOptimizer struct {
	config    *Config
	generator *Generator
	tabu      *TabuList
	rng       *rand.Rand
	logger    *logger.SolverLogger
}

// New 创建局部搜索优化器
func New(config *Config) *LocalSearchOptimizer {
	if config == nil {
		config = DefaultConfig()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &LocalSearchOptimizer{
		config:    config,
		generator: NewGenerator(rng),
		tabu:      NewTabuList(config.TabuSize),
		rng:       rng,
		logger:    logger.NewSolverLogger(),
	}
}

// Optimize 优化排班方案
// 最优解与当前工作解分开跟踪；超时或取消时恢复并返回已知最优解，
// onBest（可为 nil）在每次发现更优解时回调
func (o *LocalSearchOptimizer) Optimize(ctx context.Context, tracker *constraint.Tracker, onBest func(constraint.Score)) (constraint.Score, error) {
	start := time.Now()
	solution := tracker.Context().Solution

	current := tracker.Score()
	best := current
	bestSnapshot := snapshot(solution)

	phases := []struct {
		name   string
		filter Filter
	}{
		{"phase1", AllUnpinned},
		{"phase2", FlexibleOrEmpty},
	}
	perPhase := o.config.MaxIterations / len(phases)

	for _, phase := range phases {
		phaseStart := time.Now()
		temperature := o.config.InitialTemp
		noImprovement := 0

		for i := 0; i < perPhase; i++ {
			select {
			case <-ctx.Done():
				restore(tracker, solution, bestSnapshot)
				return best, ctx.Err()
			default:
			}
			if time.Since(start) > o.config.MaxTime {
				break
			}

			move := o.generator.Generate(solution, phase.filter)
			if move == nil || !move.Doable() {
				continue
			}

			candidate := move.Apply(tracker)
			key := hashSolution(solution)

			if o.accept(current, candidate, temperature, o.tabu.Contains(key)) {
				current = candidate
				o.tabu.Add(key)

				if current.Better(best) {
					best = current
					bestSnapshot = snapshot(solution)
					noImprovement = 0
					o.logger.NewBest(i, best.Hard, best.Soft)
					if onBest != nil {
						onBest(best)
					}
				} else {
					noImprovement++
				}
			} else {
				move.Undo(tracker)
				current = tracker.Score()
				noImprovement++
			}

			if o.config.StopOnPlateau && noImprovement >= o.config.PlateauThreshold {
				break
			}
			temperature *= o.config.CoolingRate
		}

		o.logger.PhaseComplete(phase.name, current.Hard, current.Soft, time.Since(phaseStart))
	}

	restore(tracker, solution, bestSnapshot)
	return best, nil
}

// accept 移动接受准则
// 硬约束分退化一律拒绝；硬约束改进一律接受；
// 硬约束持平时比较软约束分，较差解在禁忌表外按模拟退火概率接受
func (o *LocalSearchOptimizer) accept(current, candidate constraint.Score, temperature float64, inTabu bool) bool {
	if candidate.Hard < current.Hard {
		return false
	}
	if candidate.Hard > current.Hard {
		return true
	}
	if candidate.Soft > current.Soft {
		return true
	}
	if inTabu {
		return false
	}
	delta := float64(current.Soft - candidate.Soft)
	return o.rng.Float64() < boltzmannProbability(delta, temperature)
}

// boltzmannProbability 计算模拟退火的接受概率
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}

// snapshot 抓取方案的员工引用快照（与 Assignments 同序）
func snapshot(solution *model.RosterSolution) []*model.Employee {
	snap := make([]*model.Employee, len(solution.Assignments))
	for i, a := range solution.Assignments {
		snap[i] = a.Employee
	}
	return snap
}

// restore 将方案恢复到快照状态（经 Tracker 以保持索引与分数一致）
func restore(tracker *constraint.Tracker, solution *model.RosterSolution, snap []*model.Employee) {
	for i, a := range solution.Assignments {
		if a.Employee != snap[i] {
			tracker.Set(a, snap[i])
		}
	}
}

// hashSolution 计算方案的 FNV-1a 哈希（按分配的员工引用）
func hashSolution(solution *model.RosterSolution) uint64 {
	h := fnv.New64a()
	for _, a := range solution.Assignments {
		h.Write(a.ID[:])
		if a.Employee != nil {
			h.Write(a.Employee.ID[:])
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

// TabuList 禁忌表（以方案哈希为键）
type TabuList struct {
	items   map[uint64]struct{}
	order   []uint64
	maxSize int
	mu      sync.RWMutex
}

// NewTabuList 创建禁忌表
func NewTabuList(size int) *TabuList {
	return &TabuList{
		items:   make(map[uint64]struct{}),
		order:   make([]uint64, 0, size),
		maxSize: size,
	}
}

// Add 添加到禁忌表
func (t *TabuList) Add(key uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.items[key]; exists {
		return
	}
	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.items, oldest)
	}
	t.items[key] = struct{}{}
	t.order = append(t.order, key)
}

// Contains 检查是否在禁忌表中
func (t *TabuList) Contains(key uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, exists := t.items[key]
	return exists
}

// Clear 清空禁忌表
func (t *TabuList) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[uint64]struct{})
	t.order = t.order[:0]
}
