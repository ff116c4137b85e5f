// pkg/scripts/templates.go - PowerShell bodies for the control scripts.
//
// The scripts run under the SYSTEM account, where winget is not on PATH.
// Each body therefore begins with the same resolution block that locates
// winget.exe inside the DesktopAppInstaller package folder before calling it.

package scripts

import "text/template"

// wingetResolveBlock locates winget.exe for a SYSTEM context. It prefers the
// machine-wide WindowsApps install and falls back to the per-user alias so
// the scripts also behave during interactive testing.
const wingetResolveBlock = `$ErrorActionPreference = "Stop"

function Resolve-Winget {
    $machineWide = Get-ChildItem -Path "$env:ProgramFiles\WindowsApps" -Filter "Microsoft.DesktopAppInstaller_*_x64__8wekyb3d8bbwe" -Directory -ErrorAction SilentlyContinue |
        Sort-Object Name -Descending |
        Select-Object -First 1
    if ($machineWide) {
        $candidate = Join-Path $machineWide.FullName "winget.exe"
        if (Test-Path $candidate) {
            return $candidate
        }
    }
    $userAlias = Join-Path $env:LOCALAPPDATA "Microsoft\WindowsApps\winget.exe"
    if (Test-Path $userAlias) {
        return $userAlias
    }
    $onPath = Get-Command winget.exe -ErrorAction SilentlyContinue
    if ($onPath) {
        return $onPath.Source
    }
    return $null
}

$winget = Resolve-Winget
`

var installTemplate = template.Must(template.New("install").Parse(wingetResolveBlock + `
if (-not $winget) {
    Write-Error "winget.exe not found; cannot install {{.AppName}}"
    exit 1
}

Write-Output "Installing {{.AppName}} ({{.AppID}}) version {{.AppVersion}}"
& $winget install --id "{{.AppID}}" --version "{{.AppVersion}}" --exact --silent --scope machine --accept-package-agreements --accept-source-agreements --disable-interactivity
exit $LASTEXITCODE
`))

var uninstallTemplate = template.Must(template.New("uninstall").Parse(wingetResolveBlock + `
if (-not $winget) {
    Write-Error "winget.exe not found; cannot uninstall {{.AppName}}"
    exit 1
}

$listed = & $winget list --id "{{.AppID}}" --exact --accept-source-agreements 2>$null
if ($LASTEXITCODE -ne 0) {
    Write-Output "{{.AppID}} is not installed; nothing to do"
    exit 0
}

Write-Output "Uninstalling {{.AppName}} ({{.AppID}})"
& $winget uninstall --id "{{.AppID}}" --exact --silent --accept-source-agreements --disable-interactivity
exit $LASTEXITCODE
`))

var detectionTemplate = template.Must(template.New("detection").Parse(wingetResolveBlock + `
if (-not $winget) {
    exit 1
}

$listed = & $winget list --id "{{.AppID}}" --exact --accept-source-agreements 2>$null
if ($LASTEXITCODE -ne 0) {
    exit 1
}

foreach ($line in $listed) {
    if ($line -match [regex]::Escape("{{.AppID}}") -and $line -match [regex]::Escape("{{.AppVersion}}")) {
        Write-Output "Detected {{.AppID}} {{.AppVersion}}"
        exit 0
    }
}
exit 1
`))
