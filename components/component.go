package components

import (
	"fmt"
	"reflect"

	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type component interface {
	pulumi.ComponentResource

	init(name string)
	getOutputs() pulumi.Map
	registerOutputs(ctx *pulumi.Context, self pulumi.ComponentResource) error
}

type Component struct {
	name    string // Name is set to the name of the Pulumi component, it allows to name dependencies easily.
	outputs pulumi.Map
}

func (c *Component) init(name string) {
	c.name = name
	c.outputs = make(pulumi.Map)
}

func (c *Component) getOutputs() pulumi.Map { //nolint:unused, used through the `component` interface
	return c.outputs
}

func (c *Component) Name() string {
	return c.name
}

// registerOutputs exports values from a `pulumi.ComponentResource`. Use the `pulumi` tag to export a field.
func (c *Component) registerOutputs(ctx *pulumi.Context, self pulumi.ComponentResource) error {
	fields := reflect.VisibleFields(reflect.TypeOf(self).Elem())
	compValue := reflect.ValueOf(self).Elem()
	for _, field := range fields {
		if exportFieldName := field.Tag.Get("pulumi"); exportFieldName != "" {
			if !field.IsExported() {
				continue
			}

			if !field.Type.Implements(reflect.TypeOf((*pulumi.Input)(nil)).Elem()) {
				return fmt.Errorf("trying to export a field that is not a pulumi.Output, field name: %s", field.Name)
			}

			if _, set := c.outputs[exportFieldName]; set {
				return fmt.Errorf("cannot export field: %s as key %s is already used", field.Name, exportFieldName)
			}

			if fieldValue := compValue.FieldByIndex(field.Index).Interface(); fieldValue != nil {
				c.outputs[exportFieldName] = fieldValue.(pulumi.Input)
			}
		}
	}

	return ctx.RegisterResourceOutputs(self, c.outputs)
}

// NewComponent allocates any component type and registers it as a Pulumi component.
// Passing a nil `builder` is valid and will only produce an empty component.
func NewComponent[C component](e config.CommonEnvironment, name string, builder func(comp C) error, opts ...pulumi.ResourceOption) (C, error) {
	var comp C

	compType := reflect.TypeOf(comp)
	if compType.Kind() != reflect.Pointer {
		return comp, fmt.Errorf("component type: %T is not pointer, cannot allocate", comp)
	}

	compName := reflect.TypeOf(comp).Elem().Name()
	comp = reflect.New(compType.Elem()).Interface().(C)

	comp.init(name)
	err := e.Ctx.RegisterComponentResource(fmt.Sprintf("demo:%s", compName), e.CommonNamer.ResourceName(name), comp, opts...)
	if err != nil {
		return comp, err
	}

	if builder != nil {
		err = builder(comp)
		if err != nil {
			return comp, err
		}
	}

	return comp, comp.registerOutputs(e.Ctx, comp)
}
