package calc

import (
	"fmt"
	"io"

	"github.com/brimdata/summary"
	"gopkg.in/yaml.v3"
)

type fileVariable struct {
	Name    string `yaml:"name"`
	Case    string `yaml:"case,omitempty"`
	Address string `yaml:"address,omitempty"`
}

type fileCalculation struct {
	ID          int            `yaml:"id"`
	Description string         `yaml:"description"`
	Expression  string         `yaml:"expression"`
	Unit        string         `yaml:"unit,omitempty"`
	Interpolate bool           `yaml:"interpolate,omitempty"`
	Variables   []fileVariable `yaml:"variables"`
}

type file struct {
	Calculations []fileCalculation `yaml:"calculations"`
}

// Save writes the collection's calculations as YAML.  Results are not
// saved.
func (c *Collection) Save(w io.Writer) error {
	var f file
	for _, calc := range c.Calculations() {
		calc.mu.Lock()
		fc := fileCalculation{
			ID:          calc.ID,
			Description: calc.Description,
			Expression:  calc.Expression,
			Unit:        calc.Unit,
			Interpolate: calc.Interpolate,
		}
		for _, v := range calc.Variables {
			fv := fileVariable{Name: v.Name, Case: v.Case}
			if v.Address.IsValid() {
				fv.Address = v.Address.TextAddress()
			}
			fc.Variables = append(fc.Variables, fv)
		}
		calc.mu.Unlock()
		f.Calculations = append(f.Calculations, fc)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Load adds the calculations of a YAML file to the collection, keeping
// their saved ids.  Later ids continue after the largest one loaded.
func (c *Collection) Load(r io.Reader) error {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return err
	}
	var calcs []*Calculation
	for _, fc := range f.Calculations {
		calc := &Calculation{ID: fc.ID, Unit: fc.Unit, Interpolate: fc.Interpolate}
		for _, fv := range fc.Variables {
			v := &Variable{Name: fv.Name, Case: fv.Case}
			if fv.Address != "" {
				a, err := summary.FromTextAddress(fv.Address)
				if err != nil {
					return fmt.Errorf("calculation %d variable %s: %w", fc.ID, fv.Name, err)
				}
				v.Address = a
			}
			calc.Variables = append(calc.Variables, v)
		}
		if _, err := calc.parse(fc.Expression); err != nil {
			return fmt.Errorf("calculation %d: %w", fc.ID, err)
		}
		if fc.Description != "" {
			calc.Description = fc.Description
		}
		calcs = append(calcs, calc)
	}
	c.mu.Lock()
	for _, calc := range calcs {
		if _, err := c.find(calc.ID); err == nil {
			c.mu.Unlock()
			return fmt.Errorf("calculation %d already exists", calc.ID)
		}
	}
	for _, calc := range calcs {
		c.calcs = append(c.calcs, calc)
		c.nextID = max(c.nextID, calc.ID+1)
	}
	c.mu.Unlock()
	c.notify(c.rebuilt())
	return nil
}
