package utils

import (
	"testing"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"cobrança", "cobranca"},
		{"negociação", "negociacao"},
		{"café", "cafe"},
		{"São Paulo", "Sao Paulo"},
		{"naïve", "naive"},
	}

	for _, test := range tests {
		result := RemoveAccents(test.input)
		if result != test.expected {
			t.Errorf("RemoveAccents(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"helloWorld", "hello_world"},
		{"getUserById", "get_user_by_id"},
		{"XMLHttpRequest", "xml_http_request"},
		{"hello-world", "hello_world"},
		{"HELLO_WORLD", "hello_world"},
		{"get_/pets/{id}", "get_pets_id"},
		{"get_/pets/{petId}/photos", "get_pets_pet_id_photos"},
		{"delete_/", "delete"},
		{"cobrança", "cobranca"},
	}

	for _, test := range tests {
		result := ToSnakeCase(test.input)
		if result != test.expected {
			t.Errorf("ToSnakeCase(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"hello", []string{"hello"}},
		{"helloWorld", []string{"hello", "World"}},
		{"getUserById", []string{"get", "User", "By", "Id"}},
		{"XMLHttpRequest", []string{"XML", "Http", "Request"}},
	}

	for _, test := range tests {
		result := SplitCamelCase(test.input)
		if len(result) != len(test.expected) {
			t.Errorf("SplitCamelCase(%q) = %v, expected %v", test.input, result, test.expected)
			continue
		}
		for i, part := range result {
			if part != test.expected[i] {
				t.Errorf("SplitCamelCase(%q) = %v, expected %v", test.input, result, test.expected)
				break
			}
		}
	}
}

func TestPythonIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "name"},
		{"petId", "petId"},
		{"_private", "_private"},
		{"page-size", "page_size"},
		{"X-Request-ID", "x_request_id"},
		{"class", "class_"},
		{"self", "self_"},
		{"None", "none"},
		{"2fa", "_2fa"},
		{"$", "_"},
	}

	for _, test := range tests {
		result := PythonIdentifier(test.input)
		if result != test.expected {
			t.Errorf("PythonIdentifier(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestPythonFieldName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "name"},
		{"_id", "id"},
		{"__links", "links"},
		{"_class", "class_"},
		{"page-size", "page_size"},
		{"2fa", "field_2fa"},
		{"_", "field_"},
	}

	for _, test := range tests {
		result := PythonFieldName(test.input)
		if result != test.expected {
			t.Errorf("PythonFieldName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestPythonClassName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Pet", "Pet"},
		{"pet_owner", "pet_owner"},
		{"pet-owner", "PetOwner"},
		{"Pet.Owner", "PetOwner"},
		{"HTTPError v2", "HttpErrorV2"},
		{"None", "None_"},
		{"2fa", "_2fa"},
		{"", "_"},
	}

	for _, test := range tests {
		result := PythonClassName(test.input)
		if result != test.expected {
			t.Errorf("PythonClassName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}
