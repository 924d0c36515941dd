package autoplace

import "fmt"

// Rotation permission classes.
const (
	RotationForbidden = 0
	RotationFree      = 10
)

// orientationPenalty is indexed by rotation class.
var orientationPenalty = [...]float64{2.0, 1.9, 1.8, 1.7, 1.6, 1.5, 1.4, 1.3, 1.2, 1.1, 1.0}

// Multiplier returns the cost multiplier applied to a rotated trial of the
// given permission class: 2.0 for class 0 down to 1.0 for class 10. Class 0
// forbids the rotation outright; its multiplier only exists for the table.
func Multiplier(class int) (float64, error) {
	if class < RotationForbidden || class > RotationFree {
		return 0, fmt.Errorf("%w: %d", ErrRotationClass, class)
	}
	return orientationPenalty[class], nil
}

// validateClasses checks both rotation classes of c.
func validateClasses(c *Component) error {
	if _, err := Multiplier(c.Cost90); err != nil {
		return fmt.Errorf("%s cost90: %w", c.Ref, err)
	}
	if _, err := Multiplier(c.Cost180); err != nil {
		return fmt.Errorf("%s cost180: %w", c.Ref, err)
	}
	return nil
}

// trial is one rotation tried after the baseline scan.
type trial struct {
	delta Angle
	class int
}

// rotationTrials lists the rotations c permits, in search order:
// 180° under Cost180, then 90° and 270° under Cost90.
func rotationTrials(c *Component) []trial {
	var trials []trial
	if c.Cost180 != RotationForbidden {
		trials = append(trials, trial{delta: 1800, class: c.Cost180})
	}
	if c.Cost90 != RotationForbidden {
		trials = append(trials, trial{delta: 900, class: c.Cost90}, trial{delta: 2700, class: c.Cost90})
	}
	return trials
}
