package dotnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/dotnet"
)

func TestAssemblyMapper_ExactMatchWinsOverPrefix(t *testing.T) {
	m := dotnet.NewAssemblyMapper()
	m.RegisterNamespace("Acme", "Acme.Core")
	m.RegisterNamespace("Acme.Billing", "Acme.Billing")

	project, ok := m.ResolveNamespace("Acme.Billing")
	require.True(t, ok)
	assert.Equal(t, "Acme.Billing", project)
}

func TestAssemblyMapper_LongestDotBoundaryPrefixWins(t *testing.T) {
	m := dotnet.NewAssemblyMapper()
	m.RegisterNamespace("Acme", "Acme.Core")
	m.RegisterNamespace("Acme.Billing", "Acme.Billing")

	project, ok := m.ResolveNamespace("Acme.Billing.Invoices")
	require.True(t, ok)
	assert.Equal(t, "Acme.Billing", project)
}

func TestAssemblyMapper_RejectsNonDotBoundaryPrefix(t *testing.T) {
	m := dotnet.NewAssemblyMapper()
	m.RegisterNamespace("Acme.Bill", "Acme.Bill")

	_, ok := m.ResolveNamespace("Acme.Billing.Invoices")
	assert.False(t, ok, "Acme.Bill is a string prefix but not a dot-boundary prefix")
}

func TestAssemblyMapper_FirstRegistrationWinsOnDuplicateNamespace(t *testing.T) {
	m := dotnet.NewAssemblyMapper()
	m.RegisterNamespace("Acme", "First")
	m.RegisterNamespace("Acme", "Second")

	project, ok := m.ResolveNamespace("Acme")
	require.True(t, ok)
	assert.Equal(t, "First", project)
}

const csprojFixture = `<?xml version="1.0" encoding="utf-8"?>
<Project Sdk="Microsoft.NET.Sdk" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <RootNamespace>Acme.Billing</RootNamespace>
  </PropertyGroup>
  <ItemGroup>
    <ProjectReference Include="..\Acme.Core\Acme.Core.csproj" />
    <PackageReference Include="Newtonsoft.Json" Version="13.0.3" />
  </ItemGroup>
</Project>
`

func TestParseProject_ExtractsNamespaceAndReferences(t *testing.T) {
	p, err := dotnet.ParseProject("src/Acme.Billing/Acme.Billing.csproj", []byte(csprojFixture))
	require.NoError(t, err)

	assert.Equal(t, "Acme.Billing", p.RootNamespace)
	assert.Equal(t, []string{"net8.0"}, p.TargetFrameworks)
	require.Len(t, p.ProjectReferences, 1)
	assert.Equal(t, "../Acme.Core/Acme.Core.csproj", p.ProjectReferences[0])
	require.Len(t, p.PackageReferences, 1)
	assert.Equal(t, "Newtonsoft.Json", p.PackageReferences[0].Name)
	assert.Equal(t, "13.0.3", p.PackageReferences[0].Version)
}

func TestParseProject_DefaultsNamespaceToFileBasename(t *testing.T) {
	p, err := dotnet.ParseProject("src/Widgets/Widgets.csproj", []byte(`<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003"></Project>`))
	require.NoError(t, err)
	assert.Equal(t, "Widgets", p.RootNamespace)
	assert.Equal(t, "Widgets", p.AssemblyName)
}

const slnFixture = `Microsoft Visual Studio Solution File, Format Version 12.00
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Acme.Billing", "Acme.Billing\Acme.Billing.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{22222222-2222-2222-2222-222222222222}"
EndProject
`

func TestParseSolution_SkipsSolutionFolders(t *testing.T) {
	projects := dotnet.ParseSolution("Acme.sln", []byte(slnFixture))
	require.Len(t, projects, 1)
	assert.Equal(t, "Acme.Billing", projects[0].Name)
	assert.Equal(t, "Acme.Billing/Acme.Billing.csproj", projects[0].Path)
}
