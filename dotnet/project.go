package dotnet

import (
	"encoding/xml"
	"path"
	"strings"
)

// Project is the subset of a .csproj/.vbproj MSBuild file mycelium cares
// about: its root namespace, assembly name, target framework(s), and its
// project/package references.
type Project struct {
	Path              string
	RootNamespace     string
	AssemblyName      string
	TargetFrameworks  []string
	ProjectReferences []string // normalized, forward-slash paths
	PackageReferences []PackageRef
}

// PackageRef is a NuGet package dependency declared by a project file.
type PackageRef struct {
	Name    string
	Version string
}

// rawProject mirrors the handful of MSBuild elements we read. MSBuild XML
// namespaces the whole document, so elements are matched by local name.
type rawProject struct {
	XMLName    xml.Name       `xml:"Project"`
	ItemGroups []rawItemGroup `xml:"ItemGroup"`
	Properties []rawProperty  `xml:"PropertyGroup"`
}

type rawProperty struct {
	RootNamespace    string `xml:"RootNamespace"`
	AssemblyName     string `xml:"AssemblyName"`
	TargetFramework  string `xml:"TargetFramework"`
	TargetFrameworks string `xml:"TargetFrameworks"`
}

type rawItemGroup struct {
	ProjectReferences []rawProjectReference `xml:"ProjectReference"`
	PackageReferences []rawPackageReference `xml:"PackageReference"`
}

type rawProjectReference struct {
	Include string `xml:"Include,attr"`
}

type rawPackageReference struct {
	Include      string `xml:"Include,attr"`
	VersionAttr  string `xml:"Version,attr"`
	VersionChild string `xml:"Version"`
}

// ParseProject parses a .csproj/.vbproj file's bytes. filePath is used
// only to derive RootNamespace/AssemblyName defaults when the file omits
// them, matching project.py.
func ParseProject(filePath string, data []byte) (Project, error) {
	var raw rawProject
	if err := xml.Unmarshal(stripNamespace(data), &raw); err != nil {
		return Project{}, err
	}

	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))

	p := Project{Path: filePath, RootNamespace: base, AssemblyName: base}

	for _, props := range raw.Properties {
		if props.RootNamespace != "" {
			p.RootNamespace = props.RootNamespace
		}
		if props.AssemblyName != "" {
			p.AssemblyName = props.AssemblyName
		}
		if props.TargetFramework != "" {
			p.TargetFrameworks = append(p.TargetFrameworks, props.TargetFramework)
		}
		if props.TargetFrameworks != "" {
			for _, tf := range strings.Split(props.TargetFrameworks, ";") {
				tf = strings.TrimSpace(tf)
				if tf != "" {
					p.TargetFrameworks = append(p.TargetFrameworks, tf)
				}
			}
		}
	}

	for _, ig := range raw.ItemGroups {
		for _, pr := range ig.ProjectReferences {
			if pr.Include == "" {
				continue
			}
			p.ProjectReferences = append(p.ProjectReferences, strings.ReplaceAll(pr.Include, "\\", "/"))
		}
		for _, pkg := range ig.PackageReferences {
			if pkg.Include == "" {
				continue
			}
			version := pkg.VersionAttr
			if version == "" {
				version = pkg.VersionChild
			}
			p.PackageReferences = append(p.PackageReferences, PackageRef{Name: pkg.Include, Version: version})
		}
	}

	return p, nil
}

// stripNamespace removes the default xmlns attribute from an MSBuild
// document so encoding/xml can match elements by local name without a
// namespace-aware decoder, mirroring project.py's
// ElementTree-namespace-stripping approach.
func stripNamespace(data []byte) []byte {
	s := string(data)
	const marker = `xmlns="http://schemas.microsoft.com/developer/msbuild/2003"`
	return []byte(strings.Replace(s, marker, "", 1))
}
