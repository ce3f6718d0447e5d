package metadata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildStandardLabels(t *testing.T) {
	tests := map[string]struct {
		resourceName  string
		componentName string
		want          map[string]string
	}{
		"inference service": {
			resourceName:  "ml-inference-service",
			componentName: "inference",
			want: map[string]string{
				LabelAppName:      AppNameMedConnect,
				LabelAppInstance:  "ml-inference-service",
				LabelAppComponent: "inference",
				LabelAppPartOf:    AppNameMedConnect,
				LabelAppManagedBy: ManagedByOperator,
			},
		},
		"empty resourceName": {
			resourceName:  "",
			componentName: "inference",
			want: map[string]string{
				LabelAppName:      AppNameMedConnect,
				LabelAppInstance:  "",
				LabelAppComponent: "inference",
				LabelAppPartOf:    AppNameMedConnect,
				LabelAppManagedBy: ManagedByOperator,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := BuildStandardLabels(tc.resourceName, tc.componentName)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BuildStandardLabels() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddEnvironmentLabel(t *testing.T) {
	tests := map[string]struct {
		environment string
		want        map[string]string
	}{
		"sets label": {
			environment: "prod",
			want:        map[string]string{"a": "b", LabelEnvironment: "prod"},
		},
		"empty environment is skipped": {
			environment: "",
			want:        map[string]string{"a": "b"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := AddEnvironmentLabel(map[string]string{"a": "b"}, tc.environment)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("AddEnvironmentLabel() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeLabels(t *testing.T) {
	tests := map[string]struct {
		standardLabels map[string]string
		customLabels   map[string]string
		want           map[string]string
	}{
		"custom labels are kept": {
			standardLabels: map[string]string{LabelAppName: AppNameMedConnect},
			customLabels:   map[string]string{"team": "ml"},
			want:           map[string]string{LabelAppName: AppNameMedConnect, "team": "ml"},
		},
		"standard labels win on conflict": {
			standardLabels: map[string]string{LabelAppName: AppNameMedConnect},
			customLabels:   map[string]string{LabelAppName: "hijack"},
			want:           map[string]string{LabelAppName: AppNameMedConnect},
		},
		"nil custom labels": {
			standardLabels: map[string]string{LabelAppName: AppNameMedConnect},
			customLabels:   nil,
			want:           map[string]string{LabelAppName: AppNameMedConnect},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := MergeLabels(tc.standardLabels, tc.customLabels)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("MergeLabels() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeLabels_DoesNotMutateInputs(t *testing.T) {
	standard := map[string]string{LabelAppName: AppNameMedConnect}
	custom := map[string]string{"team": "ml"}

	merged := MergeLabels(standard, custom)
	merged["extra"] = "x"

	if len(standard) != 1 || len(custom) != 1 {
		t.Errorf("inputs were mutated: standard=%v custom=%v", standard, custom)
	}
}
