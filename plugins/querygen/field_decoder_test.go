package querygen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

func TestFieldDecoder_DecodeField(t *testing.T) {
	t.Parallel()

	type args struct {
		field FieldInfo
	}

	type want struct {
		code string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "省略可能なフィールドはキーがあればデコードする",
			args: args{
				field: FieldInfo{
					Name:     "PrimaryFunction",
					JSONTag:  "primaryFunction",
					Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyField, IsOptional: true},
				},
			},
			want: want{
				code: `if value, ok := raw["primaryFunction"]; ok {
	if err := json.Unmarshal(value, &t.PrimaryFunction); err != nil {
		return err
	}
}`,
			},
		},
		{
			name: "@includeで条件付きのフィールドは非nullでも省略可能",
			args: args{
				field: FieldInfo{
					Name:     "Name",
					JSONTag:  "name",
					Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyField, IsConditional: true},
				},
			},
			want: want{
				code: `if value, ok := raw["name"]; ok {
	if err := json.Unmarshal(value, &t.Name); err != nil {
		return err
	}
}`,
			},
		},
		{
			name: "非nullのフィールドは欠落とnullをエラーにする",
			args: args{
				field: FieldInfo{
					Name:     "ID",
					JSONTag:  "id",
					Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyField},
				},
			},
			want: want{
				code: `if value, ok := raw["id"]; !ok || value.Kind() == 'n' {
	return errors.New("Droid: non-null field \"id\" is missing or null")
} else if err := json.Unmarshal(value, &t.ID); err != nil {
	return err
}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewFieldDecoder().DecodeField("Droid", "raw", tt.args.field).String(0)
			if diff := cmp.Diff(tt.want.code, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestFieldDecoder_DecodeFields(t *testing.T) {
	t.Parallel()

	fields := []FieldInfo{
		{Name: "Name", JSONTag: "name", Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyField}},
		{Name: "Fragments", JSONTag: "-", Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyFragments}},
		{Name: "AsHuman", JSONTag: "-", Property: &codegen.PropertyDescriptor{Kind: codegen.PropertyInlineFragment}},
	}

	if diff := cmp.Diff(1, len(NewFieldDecoder().DecodeFields("Hero", "raw", fields))); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}
